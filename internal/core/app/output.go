package app

import (
	"bytes"

	"wake/internal/engine/report"
	"wake/internal/shared/util"
	"wake/internal/ui/report/formats"
)

// Emit renders result in the configured format, to the configured output
// file or to stdout.
func (a *App) Emit(result *report.Result) error {
	a.mu.RLock()
	out := a.Config.Output
	a.mu.RUnlock()

	opts := formats.Options{Root: a.workDir}
	if out.File == "" {
		opts.Color = out.Color
		return formats.Render(a.stdout, out.Format, result, opts)
	}

	var buf bytes.Buffer
	if err := formats.Render(&buf, out.Format, result, opts); err != nil {
		return err
	}
	path := a.resolvePath(out.File)
	if err := util.WriteFileWithDirs(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	a.logger.Info("report written", "path", path, "format", out.Format, "unused", result.Counts().Total)
	return nil
}
