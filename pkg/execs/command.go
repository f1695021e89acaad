package execs

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrCommandExecution is returned when command execution fails.
	ErrCommandExecution = errors.New("run")

	// ErrEmptyCommand is returned when a command is empty.
	ErrEmptyCommand = errors.New("empty command")

	// EssentialVars are always passed through from the caller environment.
	// The X11 and Wayland variables are needed to reach the display server.
	EssentialVars = []string{
		"PATH", "HOME", "USER",
		"DISPLAY", "XAUTHORITY", "WAYLAND_DISPLAY", "XDG_RUNTIME_DIR",
	}
)

// Result represents the result of a command execution.
type Result struct {
	Stdout string
	Stderr string
}

// EnvFromSource represents a source for inheriting environment variables.
type EnvFromSource struct {
	// CallerRef specifies how to inherit environment variables from the caller process.
	CallerRef *CallerRef `json:"callerRef,omitempty" jsonschema:"title=Caller Reference"`
}

// CallerRef represents a reference to environment variables from the caller process.
type CallerRef struct {
	compiled *regexp.Regexp

	// Pattern is a regex pattern for matching environment variable names.
	Pattern string `json:"pattern,omitempty" jsonschema:"title=Pattern,format=regex"`
	// Name is the specific environment variable name to inherit.
	Name string `json:"name,omitempty" jsonschema:"title=Name"`
}

// EnvVar represents an environment variable definition.
type EnvVar struct {
	// ValueFrom specifies a source for the environment variable value.
	ValueFrom *EnvVarSource `json:"valueFrom,omitempty" jsonschema:"title=Value From"`
	// Name is the environment variable name.
	Name string `json:"name" jsonschema:"title=Name"`
	// Value is the environment variable value.
	Value string `json:"value,omitempty" jsonschema:"title=Value"`
}

// EnvVarSource represents a source for an environment variable value.
type EnvVarSource struct {
	// CallerRef specifies how to get the value from the caller process environment.
	CallerRef *CallerRef `json:"callerRef,omitempty" jsonschema:"title=Caller Reference"`
}

// Compile compiles the caller reference pattern, if any.
func (c *CallerRef) Compile() error {
	if c.compiled != nil || c.Pattern == "" {
		return nil
	}

	pattern, err := regexp.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("compile pattern %q: %w", c.Pattern, err)
	}

	c.compiled = pattern

	return nil
}

// Command describes an external program and the environment it runs with.
type Command struct {
	baseEnv map[string]string
	// Command is the program to execute.
	Command string `json:"command" jsonschema:"title=Command,required,pattern=^\\S+$"`
	// Args contains the command line arguments.
	Args []string `json:"args,omitempty" jsonschema:"title=Arguments" yaml:"args,flow,omitempty"`
	// Env contains environment variable definitions.
	Env []EnvVar `json:"env,omitempty" jsonschema:"title=Environment Variables"`
	// EnvFrom contains sources for inheriting environment variables.
	EnvFrom []EnvFromSource `json:"envFrom,omitempty" jsonschema:"title=Environment Variables From"`
}

// NewCommand creates a new [Command] for the given program.
// It accepts a base environment, which usually will be from [os.Environ].
func NewCommand(baseEnv []string, name string, args ...string) Command {
	c := Command{
		Command: name,
		Args:    args,
	}
	c.SetBaseEnv(baseEnv)

	return c
}

// SetBaseEnv replaces the caller environment the command inherits from.
func (c *Command) SetBaseEnv(baseEnv []string) {
	c.baseEnv = make(map[string]string, len(baseEnv))
	for _, kv := range baseEnv {
		if key, value, ok := strings.Cut(kv, "="); ok {
			c.baseEnv[key] = value
		}
	}
}

// WithArgs returns a copy of the command with args appended.
func (c Command) WithArgs(args ...string) Command {
	c.Args = append(slices.Clone(c.Args), args...)
	return c
}

// AddEnvVar adds a single environment variable.
func (c *Command) AddEnvVar(envVar EnvVar) {
	c.Env = append(c.Env, envVar)
}

// AddEnvFrom adds environment variable sources.
func (c *Command) AddEnvFrom(envFrom ...EnvFromSource) {
	c.EnvFrom = append(c.EnvFrom, envFrom...)
}

// GetEnv constructs the environment for command execution. It contains the
// [EssentialVars] of the base environment, then EnvFrom, then Env.
func (c *Command) GetEnv() []string {
	envMap := make(map[string]string)

	for key, value := range c.baseEnv {
		if slices.Contains(EssentialVars, key) {
			envMap[key] = value
		}
	}

	c.applyEnvFrom(envMap)
	c.applyEnv(envMap)

	env := make([]string, 0, len(envMap))
	for key, value := range envMap {
		env = append(env, key+"="+value)
	}

	slices.Sort(env)

	return env
}

// CompilePatterns compiles all regex patterns.
func (c *Command) CompilePatterns() error {
	for i, envVar := range c.Env {
		if envVar.ValueFrom != nil && envVar.ValueFrom.CallerRef != nil {
			err := envVar.ValueFrom.CallerRef.Compile()
			if err != nil {
				return fmt.Errorf("env[%d]: %w", i, err)
			}
		}
	}

	for i, envFromSource := range c.EnvFrom {
		if envFromSource.CallerRef != nil {
			err := envFromSource.CallerRef.Compile()
			if err != nil {
				return fmt.Errorf("envFrom[%d]: %w", i, err)
			}
		}
	}

	return nil
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Command
	}

	return c.Command + " " + strings.Join(c.Args, " ")
}

func (c *Command) applyEnvFrom(envMap map[string]string) {
	for _, src := range c.EnvFrom {
		if src.CallerRef == nil {
			continue
		}

		if pattern := src.CallerRef.compiled; pattern != nil {
			for key, value := range c.baseEnv {
				if pattern.MatchString(key) {
					envMap[key] = value
				}
			}
		}

		if name := src.CallerRef.Name; name != "" {
			if value, ok := c.baseEnv[name]; ok {
				envMap[name] = value
			}
		}
	}
}

func (c *Command) applyEnv(envMap map[string]string) {
	for _, envVar := range c.Env {
		if envVar.Name == "" {
			continue
		}

		if envVar.Value != "" {
			envMap[envVar.Name] = envVar.Value

			continue
		}

		if envVar.ValueFrom != nil && envVar.ValueFrom.CallerRef != nil && envVar.ValueFrom.CallerRef.Name != "" {
			ref := envVar.ValueFrom.CallerRef.Name
			if value, ok := envMap[ref]; ok {
				envMap[envVar.Name] = value
			} else if value, ok := c.baseEnv[ref]; ok {
				envMap[envVar.Name] = value
			}
		}
	}
}
