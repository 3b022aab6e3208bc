// # cmd/wake/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const (
	exitOK     = 0
	exitFatal  = 1
	exitUsage  = 2
	exitUnused = 3
)

// exitError carries a process exit code out of a command. A nil err means
// the command already reported what happened.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(stderr, "wake: %v\n", exit.err)
		}
		return exit.code
	}
	slog.Error("wake failed", "error", err)
	return exitFatal
}

func newLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
