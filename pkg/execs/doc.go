// Package execs runs the external tools gridpick talks to (xdotool, xprop,
// user-defined window commands) with a controlled environment.
//
// A [Command] describes what to run and which variables of the caller's
// environment it may see. A [Runner] executes it; [Executor] is the standard
// implementation and tests substitute their own.
package execs
