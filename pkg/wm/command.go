package wm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/macropower/gridpick/pkg/execs"
	"github.com/macropower/gridpick/pkg/geom"
)

// ErrTemplate is returned for command templates that cannot be parsed.
var ErrTemplate = errors.New("command template")

// Templates holds the command lines used by [Command]. Placeholders
// {id}, {x}, {y}, {w} and {h} are substituted per argument after the line
// is split into words, so substituted values are never re-split.
type Templates struct {
	// MoveResize moves and resizes a window, e.g.
	// "wmctrl -i -r {id} -e 0,{x},{y},{w},{h}".
	MoveResize string `json:"moveResize" jsonschema:"title=Move Resize,required"`
	// Active prints the active window id.
	Active string `json:"active,omitempty" jsonschema:"title=Active Window"`
	// Name prints the title of window {id}.
	Name string `json:"name,omitempty" jsonschema:"title=Window Name"`
}

// Command is a [Manipulator] running user-defined command templates.
type Command struct {
	runner  execs.Runner
	baseEnv []string
	tmpl    Templates
}

// NewCommand creates a new [Command]. The templates are checked eagerly.
func NewCommand(runner execs.Runner, baseEnv []string, tmpl Templates) (*Command, error) {
	if strings.TrimSpace(tmpl.MoveResize) == "" {
		return nil, fmt.Errorf("%w: moveResize must not be empty", ErrTemplate)
	}

	for name, line := range map[string]string{
		"moveResize": tmpl.MoveResize,
		"active":     tmpl.Active,
		"name":       tmpl.Name,
	} {
		if line == "" {
			continue
		}

		if _, err := shellwords.Parse(line); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, name, err)
		}
	}

	return &Command{runner: runner, baseEnv: baseEnv, tmpl: tmpl}, nil
}

// ActiveWindow implements [Manipulator].
func (c *Command) ActiveWindow(ctx context.Context) (WindowID, error) {
	if c.tmpl.Active == "" {
		return "", fmt.Errorf("%w: no active window command configured", ErrNoWindow)
	}

	out, err := c.run(ctx, c.tmpl.Active, nil)
	if err != nil {
		return "", err
	}

	return parseWindowID(out)
}

// WindowName implements [Manipulator].
func (c *Command) WindowName(ctx context.Context, id WindowID) (string, error) {
	if c.tmpl.Name == "" {
		return "", nil
	}

	return c.run(ctx, c.tmpl.Name, strings.NewReplacer("{id}", string(id)))
}

// MoveResize implements [Manipulator].
func (c *Command) MoveResize(ctx context.Context, id WindowID, r geom.Rect) error {
	_, err := c.run(ctx, c.tmpl.MoveResize, strings.NewReplacer(
		"{id}", string(id),
		"{x}", strconv.Itoa(r.X),
		"{y}", strconv.Itoa(r.Y),
		"{w}", strconv.Itoa(r.W),
		"{h}", strconv.Itoa(r.H),
	))

	return err
}

// Expand splits line into words and substitutes placeholders in each word.
func Expand(line string, r *strings.Replacer) ([]string, error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrTemplate)
	}

	if r != nil {
		for i, w := range words {
			words[i] = r.Replace(w)
		}
	}

	return words, nil
}

func (c *Command) run(ctx context.Context, line string, r *strings.Replacer) (string, error) {
	words, err := Expand(line, r)
	if err != nil {
		return "", err
	}

	res, err := c.runner.Run(ctx, execs.NewCommand(c.baseEnv, words[0], words[1:]...))
	if err != nil {
		return "", fmt.Errorf("%s: %w", words[0], err)
	}

	return strings.TrimSpace(res.Stdout), nil
}
