package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wake/internal/core/errors"
)

func TestLoad(t *testing.T) {
	content := `
version = 1
paths = ["./src"]

[scan]
exclude = ["svn", "external/*"]
halt_on_main = true
verbose = true

[python]
interpreter = ""
search_paths = ["./vendor"]

[output]
format = "JSON"
fail_on_unused = true

[history]
enabled = true
path = "state/history.db"
project = "demo"

[watch]
debounce = "1s"
max_rescans_per_second = 4.0

[observability]
metrics_addr = "127.0.0.1:9464"
`
	tmpfile, err := os.CreateTemp("", "wake*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Paths) != 1 || cfg.Paths[0] != "./src" {
		t.Errorf("Unexpected Paths: %v", cfg.Paths)
	}
	if len(cfg.Scan.Exclude) != 2 || cfg.Scan.Exclude[1] != "external/*" {
		t.Errorf("Unexpected Exclude: %v", cfg.Scan.Exclude)
	}
	if !cfg.Scan.HaltOnMain || !cfg.Scan.Verbose {
		t.Errorf("Expected halt_on_main and verbose to be set: %+v", cfg.Scan)
	}
	if cfg.Scan.Extension != ".py" {
		t.Errorf("Expected default extension .py, got %q", cfg.Scan.Extension)
	}
	if cfg.Python.InterpreterName() != "" {
		t.Errorf("Expected interpreter to be disabled, got %q", cfg.Python.InterpreterName())
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected format to be normalized to json, got %q", cfg.Output.Format)
	}
	if !cfg.History.Enabled || cfg.History.Project != "demo" {
		t.Errorf("Unexpected history: %+v", cfg.History)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRescansPerSecond != 4 {
		t.Errorf("Expected 4 rescans per second, got %v", cfg.Watch.MaxRescansPerSecond)
	}
	if cfg.Observability.ServiceName != "wake" {
		t.Errorf("Expected default service name wake, got %q", cfg.Observability.ServiceName)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Version != 1 {
		t.Fatalf("expected version 1, got %d", cfg.Version)
	}
	if cfg.Python.InterpreterName() != "python3" {
		t.Fatalf("expected python3 interpreter, got %q", cfg.Python.InterpreterName())
	}
	if cfg.Output.Format != "text" {
		t.Fatalf("expected text format, got %q", cfg.Output.Format)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Fatalf("expected 500ms debounce, got %v", cfg.Watch.Debounce)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "Version", content: "version = 3", want: "unsupported config version"},
		{name: "Format", content: "[output]\nformat = \"xml\"", want: "output.format"},
		{name: "Extension", content: "[scan]\nextension = \"py\"", want: "scan.extension"},
		{name: "Pattern", content: "[scan]\nexclude = [\"[abc\"]", want: "scan.exclude[0]"},
		{name: "Syntax", content: "version = ", want: "decode config"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.content)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.IsCode(err, errors.CodeValidationError) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadOrDefault(DefaultPath)
	if err != nil {
		t.Fatalf("expected defaults when wake.toml is missing: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Fatalf("expected text format, got %q", cfg.Output.Format)
	}

	_, err = LoadOrDefault(filepath.Join(dir, "missing.toml"))
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found for explicit config path, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("WAKE_SCAN_EXCLUDE", "svn, external")
	t.Setenv("WAKE_SCAN_HALT_ON_MAIN", "TRUE")
	t.Setenv("WAKE_PYTHON_INTERPRETER", "")
	t.Setenv("WAKE_WATCH_DEBOUNCE", "2s")
	t.Setenv("WAKE_OUTPUT_FORMAT", "tsv")

	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Scan.Exclude) != 2 || cfg.Scan.Exclude[0] != "svn" || cfg.Scan.Exclude[1] != "external" {
		t.Errorf("unexpected exclude override: %v", cfg.Scan.Exclude)
	}
	if !cfg.Scan.HaltOnMain {
		t.Error("expected halt_on_main override")
	}
	if cfg.Python.InterpreterName() != "" {
		t.Errorf("expected interpreter override to disable the query, got %q", cfg.Python.InterpreterName())
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected 2s debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Output.Format != "tsv" {
		t.Errorf("expected tsv format, got %q", cfg.Output.Format)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wake.toml")
	if err := os.WriteFile(path, []byte("[output]\nformat = \"text\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	w := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start watcher: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("[output]\nformat = \"json\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Output.Format != "json" {
			t.Fatalf("expected reloaded format json, got %q", cfg.Output.Format)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
