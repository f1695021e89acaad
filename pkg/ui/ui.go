// Package ui implements the interactive grid picker.
//
// The picker shows the main grid with a row selector on its left and a column
// selector above it. Dragging over any of them selects cells of the main
// grid; releasing the button commits the selection, which is then mapped to
// the display and applied to the target window.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/gridpick/pkg/geom"
	"github.com/macropower/gridpick/pkg/grid"
	"github.com/macropower/gridpick/pkg/keys"
	"github.com/macropower/gridpick/pkg/linked"
	"github.com/macropower/gridpick/pkg/screen"
	"github.com/macropower/gridpick/pkg/ui/gridview"
	"github.com/macropower/gridpick/pkg/ui/statusbar"
	"github.com/macropower/gridpick/pkg/ui/theme"
)

// StatusMessageTimeout is how long status messages are shown.
const StatusMessageTimeout = 3 * time.Second

// ErrCanceled is the [Result] error when the user quit without committing.
var ErrCanceled = errors.New("canceled")

// ApplyFunc applies a committed target rectangle, e.g. by moving a window.
type ApplyFunc func(ctx context.Context, r geom.Rect) error

// CopyFunc writes text to the clipboard.
type CopyFunc func(text string) error

// Options configures a [Model].
type Options struct {
	Config *Config
	// Mapper maps selections onto the display. Its grid size is used for the
	// main grid.
	Mapper *screen.Mapper
	// Apply is called with the target rectangle after a commit.
	Apply ApplyFunc
	// Copy writes to the clipboard. Defaults to the system clipboard.
	Copy CopyFunc
	// SelectorSize is the thickness of the row and column selectors.
	SelectorSize int
}

// Result is the outcome of a picker session.
type Result struct {
	// Err is [ErrCanceled] if nothing was committed, or the error returned
	// while mapping or applying the selection.
	Err       error
	Selection grid.Selection
	Rect      geom.Rect
}

// ReloadMsg replaces the options of a running [Model], e.g. after the config
// file changed.
type ReloadMsg struct {
	Err     error
	Options Options
}

type (
	geometryMsg struct {
		err  error
		rect geom.Rect
	}

	appliedMsg struct {
		err  error
		sel  grid.Selection
		rect geom.Rect
	}

	copiedMsg struct {
		err  error
		text string
	}

	statusTimeoutMsg struct {
		id int
	}
)

// Model is the picker's Bubble Tea model.
type Model struct {
	ctx    context.Context //nolint:containedctx // Used by commands.
	opts   Options
	theme  *theme.Theme
	kb     *KeyBinds
	result Result

	spinner spinner.Model

	main  *gridview.Model
	rows  *gridview.Model
	cols  *gridview.Model
	views []*gridview.Model

	// Grid receiving motion and release events of the current gesture.
	captured *grid.Grid

	available   *geom.Rect
	geometryErr error
	committed   *grid.Selection
	statusMsg   string
	statusStyle statusbar.Style
	statusID    int
	width       int
	height      int
	shift       bool
	paddingOn   bool
	showHelp    bool
	applying    bool
	quitting    bool
}

// NewProgram returns a new Tea program running the picker.
func NewProgram(ctx context.Context, opts Options, progOpts ...tea.ProgramOption) (*tea.Program, *Model, error) {
	m, err := NewModel(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	progOpts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, progOpts...)

	return tea.NewProgram(m, progOpts...), m, nil
}

// NewModel creates a new [Model].
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if opts.Config == nil {
		opts.Config = NewConfig()
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	m := &Model{
		ctx:     ctx,
		result:  Result{Err: ErrCanceled, Selection: grid.NoSelection},
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}

	err := m.configure(opts)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// configure (re)builds the grids from opts, keeping the terminal size.
func (m *Model) configure(opts Options) error {
	if opts.Mapper == nil {
		return errors.New("no mapper")
	}
	if opts.Config == nil {
		opts.Config = NewConfig()
	}
	if opts.Copy == nil {
		opts.Copy = m.opts.Copy
	}

	opts.Config.EnsureDefaults()
	opts.SelectorSize = max(1, opts.SelectorSize)

	cols, rows := opts.Mapper.Cols(), opts.Mapper.Rows()

	mainGrid, err := grid.New(cols, rows, geom.Rect{}, grid.WithName("main"))
	if err != nil {
		return fmt.Errorf("create main grid: %w", err)
	}

	rowGrid, err := grid.New(1, rows, geom.Rect{}, grid.WithName("rows"))
	if err != nil {
		return fmt.Errorf("create row selector: %w", err)
	}

	colGrid, err := grid.New(cols, 1, geom.Rect{}, grid.WithName("cols"))
	if err != nil {
		return fmt.Errorf("create column selector: %w", err)
	}

	linked.Link(mainGrid, rowGrid, colGrid)
	mainGrid.Subscribe(m.onMainEvent)

	m.opts = opts
	m.kb = opts.Config.KeyBinds
	m.theme = opts.Config.NewTheme()
	m.captured = nil
	m.committed = nil

	margin := *opts.Config.CellMargin
	m.main = gridview.New(mainGrid, m.theme.Grid, margin)
	m.rows = gridview.New(rowGrid, m.theme.Selector, margin)
	m.cols = gridview.New(colGrid, m.theme.Selector, margin)
	m.views = []*gridview.Model{m.main, m.rows, m.cols}

	m.layout()

	return nil
}

func (m *Model) onMainEvent(e grid.Event) {
	switch e := e.(type) {
	case grid.EventSelectionCommitted:
		sel := grid.Selection(e)
		m.committed = &sel
	case grid.EventCanceled:
		m.committed = nil
	}
}

// Result returns the outcome of the session.
func (m *Model) Result() Result {
	return m.result
}

// Init fetches the display geometry for the preview.
// Grid returns the main selection grid.
func (m *Model) Grid() *grid.Grid {
	return m.main.Grid()
}

func (m *Model) Init() tea.Cmd {
	return m.fetchGeometry()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		if m.applying {
			break
		}

		cmd = m.handleMouse(msg)

	case geometryMsg:
		m.geometryErr = msg.err
		if msg.err == nil {
			m.available = &msg.rect
		} else {
			slog.Warn("get display geometry", slog.Any("error", msg.err))
		}

	case appliedMsg:
		m.result = Result{Selection: msg.sel, Rect: msg.rect, Err: msg.err}
		m.quitting = true

		return m, tea.Quit

	case copiedMsg:
		if msg.err != nil {
			cmd = m.setStatus("copy: "+msg.err.Error(), statusbar.StyleError)
		} else {
			cmd = m.setStatus("copied "+msg.text, statusbar.StyleActive)
		}

	case spinner.TickMsg:
		if m.applying {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case statusTimeoutMsg:
		if msg.id == m.statusID {
			m.statusMsg = ""
		}

	case ReloadMsg:
		cmd = m.reload(msg)
	}

	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	switch {
	case m.kb.Quit.Match(key):
		return m.quit()

	case m.kb.Cancel.Match(key):
		if m.applying {
			return nil
		}
		if m.captured != nil || m.anySelection() {
			m.cancelAll()

			return nil
		}

		return m.quit()

	case m.kb.Padding.Match(key):
		m.paddingOn = !m.paddingOn
		if m.paddingOn {
			return m.setStatus("padding on", statusbar.StyleActive)
		}

		return m.setStatus("padding off", statusbar.StyleActive)

	case m.kb.Copy.Match(key):
		rect, ok := m.preview()
		if !ok {
			return m.setStatus("nothing to copy", statusbar.StyleError)
		}

		return m.copyText(rect.String())

	case m.kb.Help.Match(key):
		m.showHelp = !m.showHelp
		m.layout()
	}

	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	m.shift = msg.Shift
	p := geom.Pt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.captured = m.gridAt(p)
			if m.captured != nil {
				m.captured.Press(p)
			}

		case tea.MouseButtonRight:
			target := m.gridAt(p)
			if target == nil {
				target = m.main.Grid()
			}

			target.Cancel()

			return m.quit()
		}

	case tea.MouseActionMotion:
		if m.captured != nil {
			m.captured.Move(p)
		}

	case tea.MouseActionRelease:
		if m.captured != nil {
			m.captured.Move(p)
			m.captured.Release()
			m.captured = nil
		}
	}

	if m.committed != nil {
		sel := *m.committed
		m.committed = nil

		return tea.Batch(m.apply(sel, m.padded()), m.spinner.Tick)
	}

	return nil
}

// gridAt returns the grid whose bounds contain p.
func (m *Model) gridAt(p geom.Point) *grid.Grid {
	for _, v := range m.views {
		if v.Bounds().Contains(p) {
			return v.Grid()
		}
	}

	return nil
}

func (m *Model) anySelection() bool {
	for _, v := range m.views {
		if v.Grid().HasSelection() {
			return true
		}
	}

	return false
}

func (m *Model) cancelAll() {
	for _, v := range m.views {
		if v.Grid().HasSelection() {
			v.Grid().Cancel()
		}
	}

	m.captured = nil
	m.committed = nil
}

func (m *Model) quit() tea.Cmd {
	m.cancelAll()
	m.quitting = true

	return tea.Quit
}

func (m *Model) padded() bool {
	return m.shift != m.paddingOn
}

// preview returns the rectangle the current selection maps to.
func (m *Model) preview() (geom.Rect, bool) {
	if m.available == nil {
		return geom.Rect{}, false
	}

	sel, ok := m.main.Grid().Selection()
	if !ok {
		return geom.Rect{}, false
	}

	r, err := m.opts.Mapper.Map(sel, *m.available, m.padded())
	if err != nil {
		return geom.Rect{}, false
	}

	return r, true
}

func (m *Model) fetchGeometry() tea.Cmd {
	provider := m.opts.Mapper.Provider()
	ctx := m.ctx

	return func() tea.Msg {
		r, err := provider.AvailableGeometry(ctx)

		return geometryMsg{rect: r, err: err}
	}
}

// apply maps sel against freshly fetched geometry and applies it.
func (m *Model) apply(sel grid.Selection, padded bool) tea.Cmd {
	m.applying = true

	mapper := m.opts.Mapper
	applyFn := m.opts.Apply
	ctx := m.ctx

	slog.Debug("selection committed",
		slog.String("selection", sel.String()),
		slog.Bool("padded", padded),
	)

	return func() tea.Msg {
		available, err := mapper.Provider().AvailableGeometry(ctx)
		if err != nil {
			return appliedMsg{sel: sel, err: fmt.Errorf("get display geometry: %w", err)}
		}

		r, err := mapper.Map(sel, available, padded)
		if err != nil {
			return appliedMsg{sel: sel, err: fmt.Errorf("map selection: %w", err)}
		}

		if applyFn != nil {
			err = applyFn(ctx, r)
		}

		return appliedMsg{sel: sel, rect: r, err: err}
	}
}

func (m *Model) copyText(text string) tea.Cmd {
	copyFn := m.opts.Copy

	return func() tea.Msg {
		return copiedMsg{text: text, err: copyFn(text)}
	}
}

func (m *Model) setStatus(msg string, style statusbar.Style) tea.Cmd {
	m.statusID++
	m.statusMsg = msg
	m.statusStyle = style

	id := m.statusID

	return tea.Tick(StatusMessageTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{id: id}
	})
}

func (m *Model) reload(msg ReloadMsg) tea.Cmd {
	if msg.Err != nil {
		return m.setStatus("reload config: "+msg.Err.Error(), statusbar.StyleError)
	}
	if m.applying {
		return nil
	}

	if msg.Options.Apply == nil {
		msg.Options.Apply = m.opts.Apply
	}

	err := m.configure(msg.Options)
	if err != nil {
		return m.setStatus("reload config: "+err.Error(), statusbar.StyleError)
	}

	return tea.Batch(m.fetchGeometry(), m.setStatus("config reloaded", statusbar.StyleActive))
}

// layout places the selectors and the main grid within the terminal.
//
//	margin
//	       +--------- cols ---------+
//	       |                        |
//	+-rows-+--------- main ---------+
//	|      |                        |
func (m *Model) layout() {
	if m.main == nil {
		return
	}

	margin := *m.opts.Config.ContentMargin
	gap := *m.opts.Config.CellMargin
	size := m.opts.SelectorSize

	height := m.height - m.footerHeight()

	inner := geom.R(margin, margin, max(0, m.width-2*margin), max(0, height-2*margin))

	offset := size + gap
	mainRect := geom.R(inner.X+offset, inner.Y+offset, max(0, inner.W-offset), max(0, inner.H-offset))

	m.main.Grid().SetBounds(mainRect)
	m.rows.Grid().SetBounds(geom.R(inner.X, mainRect.Y, min(size, inner.W), mainRect.H))
	m.cols.Grid().SetBounds(geom.R(mainRect.X, inner.Y, mainRect.W, min(size, inner.H)))
}

func (m *Model) footerHeight() int {
	h := 1
	if m.showHelp {
		h += m.helpRenderer().Height(m.width)
	}

	return h
}

func (m *Model) helpRenderer() *statusbar.HelpRenderer {
	r := &keys.Renderer{}
	r.AddColumn(m.kb.Quit, m.kb.Cancel, m.kb.Help)
	r.AddColumn(m.kb.Padding, m.kb.Copy)

	return statusbar.NewHelpRenderer(m.theme, r)
}

func (m *Model) View() string {
	if m.quitting || m.width <= 0 || m.height <= 0 {
		return ""
	}

	lines := m.canvas(max(0, m.height-m.footerHeight()))
	if m.showHelp {
		lines = append(lines, m.helpRenderer().Render(m.width))
	}

	lines = append(lines, m.statusBar())

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// canvas renders the grid views onto height lines of background.
func (m *Model) canvas(height int) []string {
	views := slices.Clone(m.views)
	slices.SortFunc(views, func(a, b *gridview.Model) int {
		return a.Bounds().X - b.Bounds().X
	})

	rendered := make(map[*gridview.Model][]string, len(views))
	for _, v := range views {
		if !v.Bounds().Empty() {
			rendered[v] = strings.Split(v.View(), "\n")
		}
	}

	bg := m.theme.Grid.Background
	fill := func(n int) string {
		if n <= 0 {
			return ""
		}

		return bg.Render(strings.Repeat(" ", n))
	}

	lines := make([]string, height)
	for y := range lines {
		var sb strings.Builder

		x := 0
		for _, v := range views {
			b := v.Bounds()
			viewLines, ok := rendered[v]
			if !ok || y < b.Y || y-b.Y >= len(viewLines) || b.X < x || b.X+b.W > m.width {
				continue
			}

			sb.WriteString(fill(b.X - x))
			sb.WriteString(viewLines[y-b.Y])
			x = b.X + b.W
		}

		sb.WriteString(fill(m.width - x))
		lines[y] = sb.String()
	}

	return lines
}

func (m *Model) statusBar() string {
	var opts []statusbar.Opt

	switch {
	case m.statusMsg != "" && m.statusStyle == statusbar.StyleError:
		opts = append(opts, statusbar.WithError(m.statusMsg))
	case m.statusMsg != "":
		opts = append(opts, statusbar.WithMessage(m.statusMsg))
	case m.geometryErr != nil:
		opts = append(opts, statusbar.WithError("display geometry: "+m.geometryErr.Error()))
	}

	note := "drag to select, right click to cancel"

	sel, ok := m.main.Grid().Selection()
	if ok {
		note = describe(sel)
	}
	if m.padded() {
		note += " [padded]"
	}
	if m.main.Bounds().W < m.main.Grid().Cols() || m.main.Bounds().H < m.main.Grid().Rows() {
		note = "terminal too small"
	}
	if m.applying {
		note = m.spinner.View() + " placing window"
	}

	preview := ""
	if r, ok := m.preview(); ok {
		preview = statusbar.Preview(r)
	}

	return statusbar.New(m.theme, m.width, opts...).Render(note, preview)
}

func describe(sel grid.Selection) string {
	return fmt.Sprintf("cols %s, rows %s",
		span(sel.Col, sel.LastCol()),
		span(sel.Row, sel.LastRow()),
	)
}

func span(first, last int) string {
	if first == last {
		return fmt.Sprint(first)
	}

	return fmt.Sprintf("%d-%d", first, last)
}
