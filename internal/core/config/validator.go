package config

import (
	"fmt"
	"strings"

	"wake/internal/core/errors"

	"github.com/gobwas/glob"
)

var supportedFormats = map[string]bool{
	"text":  true,
	"json":  true,
	"tsv":   true,
	"sarif": true,
}

// Validate checks every section and returns the first violation as a
// CodeValidationError.
func Validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validateScan,
		validateOutput,
		validateHistory,
		validateWatch,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	ext := strings.TrimSpace(cfg.Scan.Extension)
	if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		return fmt.Errorf("scan.extension must start with '.', got %q", cfg.Scan.Extension)
	}
	for i, pattern := range cfg.Scan.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("scan.exclude[%d] must not be empty", i)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("scan.exclude[%d] %q is not a valid pattern: %w", i, pattern, err)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	format := strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if !supportedFormats[format] {
		return fmt.Errorf("output.format must be one of: json, sarif, text, tsv; got %q", cfg.Output.Format)
	}
	cfg.Output.Format = format
	return nil
}

func validateHistory(cfg *Config) error {
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return fmt.Errorf("history.path must not be empty when history is enabled")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be positive, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRescansPerSecond < 0 {
		return fmt.Errorf("watch.max_rescans_per_second must not be negative")
	}
	return nil
}
