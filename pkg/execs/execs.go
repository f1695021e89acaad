package execs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/gridpick/pkg/log"
)

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Executor runs commands as local subprocesses.
type Executor struct {
	tracer trace.Tracer
	dir    string
}

// NewExecutor creates an [Executor] running commands in dir. An empty dir
// means the current working directory.
func NewExecutor(dir string) *Executor {
	return &Executor{
		tracer: otel.Tracer("executor"),
		dir:    dir,
	}
}

// Run executes cmd and returns its output. Stdout and stderr are returned
// alongside the error when the command produced any output before failing.
func (e *Executor) Run(ctx context.Context, cmd Command) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "exec", trace.WithAttributes(
		attribute.String("command", cmd.String()),
	))
	defer span.End()

	if cmd.Command == "" {
		return nil, ErrEmptyCommand
	}

	logger := log.WithContext(ctx).With(slog.String("command", cmd.String()))

	start := time.Now()

	//nolint:gosec // G204: Subprocess launched with a potential tainted input or cmd arguments.
	c := exec.CommandContext(ctx, cmd.Command, cmd.Args...)
	c.Dir = e.dir
	c.Env = cmd.GetEnv()

	var stdout, stderr bytes.Buffer

	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		logger.DebugContext(ctx, "command failed",
			slog.Duration("duration", time.Since(start)),
			slog.String("stderr", strings.TrimSpace(result.Stderr)),
			slog.Any("error", err),
		)

		if stdout.Len() > 0 || stderr.Len() > 0 {
			return result, fmt.Errorf("%w: %s: %w", ErrCommandExecution, cmd.Command, err)
		}

		return nil, fmt.Errorf("%w: %s: %w", ErrCommandExecution, cmd.Command, err)
	}

	logger.DebugContext(ctx, "command executed successfully",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}
