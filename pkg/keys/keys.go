// Package keys implements configurable key bindings and their help text.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	reflow "github.com/muesli/reflow/ansi"
)

// ErrDuplicateKey is returned when one key code is bound more than once.
var ErrDuplicateKey = errors.New("duplicate key binding")

// Key is a single key, as reported by bubbletea's KeyMsg.String.
type Key struct {
	// Code is the key code, e.g. "q", "esc" or "ctrl+c".
	Code string `json:"code" jsonschema:"title=Code,required"`
	// Alias is shown in help text instead of the code.
	Alias string `json:"alias,omitempty" jsonschema:"title=Alias"`
	// Hidden keys work but are not shown in help text.
	Hidden bool `json:"hidden,omitempty" jsonschema:"title=Hidden"`
}

// KeyOpt configures a [Key].
type KeyOpt func(k *Key)

// New creates a new [Key].
func New(code string, opts ...KeyOpt) Key {
	k := Key{Code: code}
	for _, opt := range opts {
		opt(&k)
	}

	return k
}

// WithAlias sets the help text alias.
func WithAlias(alias string) KeyOpt {
	return func(k *Key) {
		k.Alias = alias
	}
}

// Hidden hides the key from help text.
func Hidden() KeyOpt {
	return func(k *Key) {
		k.Hidden = true
	}
}

func (k Key) String() string {
	if k.Alias != "" {
		return k.Alias
	}

	return k.Code
}

// KeyBind is an action and the keys that trigger it.
type KeyBind struct {
	// Description of the action, shown in help text.
	Description string `json:"description,omitempty" jsonschema:"title=Description"`
	// Keys that trigger the action.
	Keys []Key `json:"keys,omitempty" jsonschema:"title=Keys,minItems=1"`
}

// NewBind creates a new [KeyBind].
func NewBind(description string, keys ...Key) KeyBind {
	return KeyBind{Description: description, Keys: keys}
}

// String joins the visible keys with "/".
func (kb *KeyBind) String() string {
	var visible []string
	for _, k := range kb.Keys {
		if !k.Hidden {
			visible = append(visible, k.String())
		}
	}

	return strings.Join(visible, "/")
}

// Match reports whether key triggers kb. A nil binding matches nothing.
func (kb *KeyBind) Match(key string) bool {
	if kb == nil {
		return false
	}

	for _, k := range kb.Keys {
		if k.Code == key {
			return true
		}
	}

	return false
}

// AddKey adds key unless its code is already bound.
func (kb *KeyBind) AddKey(key Key) {
	if kb == nil || kb.Match(key.Code) {
		return
	}

	kb.Keys = append(kb.Keys, key)
}

// SetDefaultBind fills *kb from def: a nil binding is replaced, and missing
// keys or description are copied.
func SetDefaultBind(kb **KeyBind, def KeyBind) {
	if *kb == nil {
		*kb = &def

		return
	}

	if len((*kb).Keys) == 0 {
		(*kb).Keys = def.Keys
	}
	if (*kb).Description == "" {
		(*kb).Description = def.Description
	}
}

// ValidateBinds returns an error for every key code that is bound more than
// once across all binds.
func ValidateBinds(binds ...*KeyBind) error {
	var errs []error

	seen := make(map[string]string)
	for _, kb := range binds {
		if kb == nil {
			continue
		}

		for _, k := range kb.Keys {
			if prev, ok := seen[k.Code]; ok {
				errs = append(errs, fmt.Errorf("%w: %q is bound to %q and %q",
					ErrDuplicateKey, k.Code, prev, kb.Description))

				continue
			}

			seen[k.Code] = kb.Description
		}
	}

	return errors.Join(errs...)
}

// ShortHelp renders binds on a single line, e.g. "q quit • p padding".
func ShortHelp(sep string, binds ...*KeyBind) string {
	parts := make([]string, 0, len(binds))
	for _, kb := range binds {
		if kb == nil {
			continue
		}

		if keys := kb.String(); keys != "" {
			parts = append(parts, keys+" "+kb.Description)
		}
	}

	return strings.Join(parts, sep)
}

// Renderer lays out key bindings in columns.
type Renderer struct {
	columns [][]*KeyBind
}

// AddColumn adds a column of bindings. Empty columns are ignored.
func (r *Renderer) AddColumn(binds ...*KeyBind) {
	if len(binds) > 0 {
		r.columns = append(r.columns, binds)
	}
}

// Render renders all columns side by side within width cells.
func (r *Renderer) Render(width int) string {
	if len(r.columns) == 0 {
		return ""
	}

	colWidth := max(8, width/len(r.columns)-2)

	cols := make([][]string, len(r.columns))
	height := 0

	for i, binds := range r.columns {
		cols[i] = renderColumn(colWidth, binds)
		height = max(height, len(cols[i]))
	}

	lines := make([]string, height)
	for row := range height {
		var sb strings.Builder
		for _, col := range cols {
			cell := strings.Repeat(" ", colWidth)
			if row < len(col) {
				cell = col[row]
			}

			sb.WriteString(" " + cell + " ")
		}

		lines[row] = strings.TrimRight(sb.String(), " ")
	}

	return strings.Join(lines, "\n")
}

func renderColumn(width int, binds []*KeyBind) []string {
	keyWidth := 0
	for _, kb := range binds {
		keyWidth = max(keyWidth, reflow.PrintableRuneWidth(kb.String()))
	}

	descWidth := max(1, width-keyWidth-2)

	var rows []string
	for _, kb := range binds {
		keys := kb.String()
		if keys == "" {
			continue
		}

		desc := ansi.Truncate(kb.Description, descWidth, "…")
		row := pad(keys, keyWidth) + "  " + pad(desc, descWidth)
		rows = append(rows, row)
	}

	return rows
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-reflow.PrintableRuneWidth(s)))
}
