package app

import (
	"context"
	"time"

	"wake/internal/core/errors"
	"wake/internal/engine/discovery"
	"wake/internal/engine/report"
	"wake/internal/engine/symbols"
	"wake/internal/shared/observability"
	"wake/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Scan resolves paths, drops excluded files, collects symbols from them and
// everything they import, and computes the unused symbols. Scans never
// overlap.
func (a *App) Scan(ctx context.Context, paths []string) (*report.Result, error) {
	a.scanMu.Lock()
	defer a.scanMu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "app.Scan", trace.WithAttributes(attribute.Int("paths", len(paths))))
	defer span.End()

	a.mu.RLock()
	cfg, filter, index := a.Config, a.filter, a.index
	a.mu.RUnlock()

	start := time.Now()
	files, err := discovery.NewResolver(cfg.Scan.Extension, a.stderr, a.logger).Resolve(paths)
	if err != nil {
		return nil, a.scanFailed(span, errors.AddContext(err, errors.CtxOperation, "resolve_paths"))
	}
	files = filter.Apply(files)
	span.SetAttributes(attribute.Int("files", len(files)))

	collector := symbols.NewCollector(a.Parser, index, symbols.Options{
		HaltOnMain:  cfg.Scan.HaltOnMain,
		Filter:      filter,
		Diagnostics: a.stdout,
		Logger:      a.logger,
	})
	if err := collector.Run(ctx, files); err != nil {
		return nil, a.scanFailed(span, errors.AddContext(err, errors.CtxOperation, "collect_symbols"))
	}

	result := report.Analyze(collector)
	elapsed := time.Since(start)
	observability.ScanDuration.Observe(elapsed.Seconds())

	counts := result.Counts()
	a.setStatus(observability.ScanStatus{
		Status:       "up",
		LastScan:     time.Now().UTC(),
		FilesScanned: len(result.Files()),
		Unused:       counts.Total,
	})
	a.logger.Debug("scan finished",
		"files", len(result.Files()),
		"imports", len(result.ImportPaths()),
		"syntax_errors", len(result.SyntaxErrors()),
		"unused", counts.Total,
		"duration", elapsed,
		"heap_mb", util.GetHeapAllocMB(),
	)

	if a.history != nil {
		a.recordHistory(cfg.History.Project, result, elapsed)
	}
	return result, nil
}

func (a *App) scanFailed(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	status := a.Status()
	status.Status = "error"
	a.setStatus(status)
	return err
}

// Excluded reports whether path is dropped by the current exclusion patterns.
func (a *App) Excluded(path string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.filter.Excluded(path)
}
