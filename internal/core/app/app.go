package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"wake/internal/core/config"
	"wake/internal/core/ports"
	"wake/internal/data/history"
	"wake/internal/engine/discovery"
	"wake/internal/engine/parser"
	"wake/internal/engine/report"
	"wake/internal/engine/resolver"
	"wake/internal/shared/observability"
)

var (
	_ ports.ScanResult   = (*report.Result)(nil)
	_ ports.HistoryStore = (*history.Store)(nil)
)

// Options carry the process-level collaborators of an App.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	// WorkDir anchors the module search index and relative config paths.
	// Defaults to the current directory.
	WorkDir string
}

type App struct {
	Config *config.Config
	Parser *parser.Parser

	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	workDir string

	mu     sync.RWMutex
	filter *discovery.Filter
	index  *resolver.SearchIndex

	history        ports.HistoryStore
	historyWorker  *historyWorker
	metricsServer  *observability.MetricsServer
	shutdownTraces observability.ShutdownFunc

	statusMu sync.RWMutex
	status   observability.ScanStatus

	scanMu sync.Mutex
}

// New wires an App from cfg. It opens the history store, starts the metrics
// server and installs the tracer provider when the config asks for them.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		opts.WorkDir = wd
	}

	p, err := parser.NewParser()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Parser:  p,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		logger:  opts.Logger,
		workDir: opts.WorkDir,
		status:  observability.ScanStatus{Status: "starting"},
	}

	if err := a.configure(ctx, cfg); err != nil {
		return nil, err
	}

	if cfg.History.Enabled {
		store, err := history.Open(a.resolvePath(cfg.History.Path))
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.history = store
	}

	shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	a.shutdownTraces = shutdown

	if cfg.Observability.MetricsAddr != "" {
		a.metricsServer = observability.NewMetricsServer(cfg.Observability.MetricsAddr, a.Status)
		if err := a.metricsServer.Start(ctx); err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("start metrics server: %w", err)
		}
	}

	return a, nil
}

// configure rebuilds the parts of the App derived from scan settings.
func (a *App) configure(ctx context.Context, cfg *config.Config) error {
	filter, err := discovery.NewFilter(cfg.Scan.Exclude, a.logger)
	if err != nil {
		return err
	}
	searchPath := resolver.RuntimeSearchPath(ctx, a.logger, cfg.Python.SearchPaths, cfg.Python.InterpreterName())
	index := resolver.BuildSearchIndex(a.workDir, searchPath, cfg.Scan.Extension)
	a.logger.Debug("module search index built", "dirs", len(index.Dirs()))

	a.mu.Lock()
	a.Config = cfg
	a.filter = filter
	a.index = index
	a.mu.Unlock()
	return nil
}

// Reconfigure applies a reloaded config to subsequent scans. Output,
// history and observability settings are fixed at startup.
func (a *App) Reconfigure(ctx context.Context, cfg *config.Config) error {
	a.mu.RLock()
	current := a.Config
	a.mu.RUnlock()

	next := *cfg
	next.Output = current.Output
	next.History = current.History
	next.Observability = current.Observability
	next.Scan.Extension = current.Scan.Extension
	if err := a.configure(ctx, &next); err != nil {
		return err
	}
	a.logger.Info("configuration reloaded", "exclude", next.Scan.Exclude, "halt_on_main", next.Scan.HaltOnMain)
	return nil
}

// Status reports the latest scan for the health endpoint.
func (a *App) Status() observability.ScanStatus {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status
}

func (a *App) setStatus(status observability.ScanStatus) {
	a.statusMu.Lock()
	a.status = status
	a.statusMu.Unlock()
}

func (a *App) Close(ctx context.Context) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.historyWorker != nil {
		keep(a.historyWorker.stop(ctx))
		a.historyWorker = nil
	}
	if a.history != nil {
		keep(a.history.Close())
		a.history = nil
	}
	if a.metricsServer != nil {
		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		keep(a.metricsServer.Stop(stopCtx))
		cancel()
		a.metricsServer = nil
	}
	if a.shutdownTraces != nil {
		keep(a.shutdownTraces(ctx))
		a.shutdownTraces = nil
	}
	return firstErr
}

func (a *App) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.workDir, path)
}
