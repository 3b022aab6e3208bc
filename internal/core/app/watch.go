package app

import (
	"context"
	"os"

	"wake/internal/core/config"
	"wake/internal/core/watcher"
	"wake/internal/engine/report"
	"wake/internal/shared/util"
)

type WatchOptions struct {
	// ConfigPath is reloaded on change when it names an existing file.
	ConfigPath string
	// OnResult receives every completed scan instead of Emit.
	OnResult func(*report.Result)
}

// Watch scans paths, emits the report, then rescans and re-emits whenever a
// source file under paths changes. Watch returns when ctx is done.
func (a *App) Watch(ctx context.Context, paths []string, opts WatchOptions) error {
	a.startHistoryWorker()

	rescan := func() {
		result, err := a.Scan(ctx, paths)
		if err != nil {
			a.logger.Error("scan failed", "error", err)
			return
		}
		if opts.OnResult != nil {
			opts.OnResult(result)
			return
		}
		if err := a.Emit(result); err != nil {
			a.logger.Error("write report failed", "error", err)
		}
	}
	rescan()

	a.mu.RLock()
	cfg := a.Config
	a.mu.RUnlock()

	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:  cfg.Watch.Debounce,
		Extension: cfg.Scan.Extension,
		Filter:    a,
		Limiter:   util.NewScanLimiter(cfg.Watch.MaxRescansPerSecond),
		Logger:    a.logger,
	}, func(changed []string) {
		a.logger.Info("change detected", "files", len(changed), "first", changed[0])
		rescan()
	})
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch(paths); err != nil {
		return err
	}

	if configPath := opts.ConfigPath; configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			cw := config.NewWatcher(configPath, func(next *config.Config) {
				if err := a.Reconfigure(ctx, next); err != nil {
					a.logger.Warn("config reload rejected", "path", configPath, "error", err)
				}
			})
			if err := cw.Start(ctx); err != nil {
				a.logger.Warn("config watch unavailable", "path", configPath, "error", err)
			} else {
				defer cw.Stop()
			}
		}
	}

	a.logger.Info("watching for changes", "paths", paths)
	<-ctx.Done()
	return nil
}
