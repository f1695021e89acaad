package uitest

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// SetupColorProfile sets the color profile to TrueColor for consistent test output.
// Call this at the start of tests that involve styled output.
func SetupColorProfile() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// ANSIStyleVerifier inspects the colors of rendered output.
type ANSIStyleVerifier struct {
	output string
}

// NewANSIStyleVerifier creates a new verifier for the given output.
func NewANSIStyleVerifier(output string) *ANSIStyleVerifier {
	return &ANSIStyleVerifier{output: output}
}

// PlainText strips all ANSI sequences and returns plain text.
func (v *ANSIStyleVerifier) PlainText() string {
	return ansi.Strip(v.output)
}

// Backgrounds returns the background color of every styled text segment, in
// order. Segments without a background are reported as "".
func (v *ANSIStyleVerifier) Backgrounds() []string {
	segments := v.segments()

	bgs := make([]string, 0, len(segments))
	for _, seg := range segments {
		bgs = append(bgs, seg.background)
	}

	return bgs
}

// BackgroundAt returns the background color of the cell at column x, or "" if
// x is outside the output or the cell has no background.
func (v *ANSIStyleVerifier) BackgroundAt(x int) string {
	col := 0
	for _, seg := range v.segments() {
		w := ansi.StringWidth(seg.text)
		if x < col+w {
			return seg.background
		}

		col += w
	}

	return ""
}

// segment is a run of text sharing one background color.
type segment struct {
	text       string
	background string
}

func (v *ANSIStyleVerifier) segments() []segment {
	var (
		segments []segment
		bg       string
		text     strings.Builder
	)

	input := []byte(v.output)

	var state byte

	p := ansi.GetParser()
	defer ansi.PutParser(p)

	for len(input) > 0 {
		seq, width, n, newState := ansi.DecodeSequence(input, state, p)

		if ansi.HasCsiPrefix(seq) && seq[len(seq)-1] == 'm' {
			if text.Len() > 0 {
				segments = append(segments, segment{text: text.String(), background: bg})
				text.Reset()
			}

			bg = parseBackground(p.Params(), bg)
		} else if width > 0 {
			text.Write(seq)
		}

		input = input[n:]
		state = newState
	}

	if text.Len() > 0 {
		segments = append(segments, segment{text: text.String(), background: bg})
	}

	return segments
}

// parseBackground applies the SGR parameters to the current background.
// 256 colors are reported as their index and RGB colors as upper-case hex.
func parseBackground(params ansi.Params, current string) string {
	bg := current

	for i := 0; i < len(params); i++ {
		param := params[i].Param(0)

		switch {
		case param == 0, param == 49:
			bg = ""
		case param == 48 && i+2 < len(params) && params[i+1].Param(0) == 5:
			bg = fmt.Sprint(params[i+2].Param(0))
			i += 2
		case param == 48 && i+4 < len(params) && params[i+1].Param(0) == 2:
			bg = fmt.Sprintf("%02X%02X%02X",
				params[i+2].Param(0), params[i+3].Param(0), params[i+4].Param(0))
			i += 4
		case param == 38 && i+1 < len(params):
			// Skip the foreground color arguments.
			if params[i+1].Param(0) == 5 {
				i += 2
			} else if params[i+1].Param(0) == 2 {
				i += 4
			}
		case param >= 40 && param <= 47:
			bg = fmt.Sprint(param - 40)
		case param >= 100 && param <= 107:
			bg = fmt.Sprint(param - 100 + 8)
		}
	}

	return bg
}
