package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"wake/internal/shared/util"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: WAKE_[SECTION]_[KEY] (e.g., WAKE_SCAN_HALT_ON_MAIN).
func ApplyEnvOverrides(cfg *Config) {
	// Scan
	setEnvList(&cfg.Scan.Exclude, "WAKE_SCAN_EXCLUDE")
	setEnvBool(&cfg.Scan.HaltOnMain, "WAKE_SCAN_HALT_ON_MAIN")
	setEnvBool(&cfg.Scan.Verbose, "WAKE_SCAN_VERBOSE")
	setEnvString(&cfg.Scan.Extension, "WAKE_SCAN_EXTENSION")

	// Python
	if val, ok := os.LookupEnv("WAKE_PYTHON_INTERPRETER"); ok {
		slog.Debug("applying env override", "key", "WAKE_PYTHON_INTERPRETER", "value", val)
		cfg.Python.Interpreter = &val
	}
	setEnvList(&cfg.Python.SearchPaths, "WAKE_PYTHON_SEARCH_PATHS")

	// Output
	setEnvString(&cfg.Output.Format, "WAKE_OUTPUT_FORMAT")
	setEnvBool(&cfg.Output.FailOnUnused, "WAKE_OUTPUT_FAIL_ON_UNUSED")

	// History
	setEnvBool(&cfg.History.Enabled, "WAKE_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "WAKE_HISTORY_PATH")
	setEnvString(&cfg.History.Project, "WAKE_HISTORY_PROJECT")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "WAKE_WATCH_DEBOUNCE")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "WAKE_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "WAKE_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = util.SplitList([]string{val})
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
