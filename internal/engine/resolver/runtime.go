package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const interpreterTimeout = 5 * time.Second

const sysPathProgram = "import json, sys; json.dump(sys.path, sys.stdout)"

// RuntimeSearchPath assembles the module search path: configured paths,
// then PYTHONPATH entries, then the interpreter's sys.path when an
// interpreter is configured. Interpreter failures are logged to logger and
// ignored.
func RuntimeSearchPath(ctx context.Context, logger *slog.Logger, configured []string, interpreter string) []string {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]string, 0, len(configured))
	out = append(out, configured...)
	out = append(out, filepath.SplitList(os.Getenv("PYTHONPATH"))...)

	if interpreter == "" {
		return out
	}
	sysPath, err := InterpreterSysPath(ctx, interpreter)
	if err != nil {
		logger.Debug("interpreter search path unavailable", "interpreter", interpreter, "error", err)
		return out
	}
	return append(out, sysPath...)
}

// InterpreterSysPath asks interpreter for its sys.path.
func InterpreterSysPath(ctx context.Context, interpreter string) ([]string, error) {
	bin, err := exec.LookPath(interpreter)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, interpreterTimeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-c", sysPathProgram)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("query sys.path via %s: %w", bin, err)
	}

	var entries []string
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		return nil, fmt.Errorf("decode sys.path from %s: %w", bin, err)
	}

	// sys.path[0] is "" for -c, meaning the current directory, which the index always covers.
	out := entries[:0]
	for _, entry := range entries {
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out, nil
}
