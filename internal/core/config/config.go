package config

import (
	"os"
	"strings"
	"time"

	"wake/internal/core/errors"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPath      = "./wake.toml"
	DefaultExtension = ".py"
)

type Config struct {
	Version       int           `toml:"version"`
	Paths         []string      `toml:"paths"`
	Scan          Scan          `toml:"scan"`
	Python        Python        `toml:"python"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Scan struct {
	Exclude    []string `toml:"exclude"`
	HaltOnMain bool     `toml:"halt_on_main"`
	Verbose    bool     `toml:"verbose"`
	Extension  string   `toml:"extension"`
}

type Python struct {
	// Interpreter is queried for sys.path; empty disables the query.
	Interpreter *string  `toml:"interpreter"`
	SearchPaths []string `toml:"search_paths"`
}

type Output struct {
	Format       string `toml:"format"`
	File         string `toml:"file"`
	Color        bool   `toml:"color"`
	FailOnUnused bool   `toml:"fail_on_unused"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Project string `toml:"project"`
}

type Watch struct {
	Debounce            time.Duration `toml:"debounce"`
	MaxRescansPerSecond float64       `toml:"max_rescans_per_second"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads, defaults, overrides from the environment and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "read config"), errors.CtxPath, path)
	}
	return Parse(string(data))
}

// LoadOrDefault behaves like Load but falls back to Default when the
// default config file is absent.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.IsCode(err, errors.CodeNotFound) && path == DefaultPath {
		cfg = Default()
		ApplyEnvOverrides(cfg)
		return cfg, Validate(cfg)
	}
	return nil, err
}

// Parse decodes TOML content into a validated Config.
func Parse(content string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode config")
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Scan.Extension) == "" {
		cfg.Scan.Extension = DefaultExtension
	}
	if cfg.Python.Interpreter == nil {
		interpreter := "python3"
		cfg.Python.Interpreter = &interpreter
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = ".wake/history.db"
	}
	if strings.TrimSpace(cfg.History.Project) == "" {
		cfg.History.Project = "default"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRescansPerSecond == 0 {
		cfg.Watch.MaxRescansPerSecond = 2
	}
	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "wake"
	}
}

// InterpreterName returns the configured interpreter or "" when disabled.
func (p Python) InterpreterName() string {
	if p.Interpreter == nil {
		return ""
	}
	return strings.TrimSpace(*p.Interpreter)
}
