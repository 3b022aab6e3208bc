package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"wake/internal/core/ports"
	"wake/internal/data/history"
	"wake/internal/engine/report"
)

// recordHistory stores the run. In watch mode the write goes through the
// history worker; otherwise it is saved before returning. Failures are
// logged and never fail the scan.
func (a *App) recordHistory(project string, result *report.Result, elapsed time.Duration) {
	req := a.historyWrite(project, result, elapsed)
	if a.historyWorker != nil {
		a.historyWorker.enqueue(req)
		return
	}
	runID, err := a.history.SaveRun(req.Snapshot, req.Unused)
	if err != nil {
		a.logger.Warn("history write failed", "project", project, "error", err)
		return
	}
	a.logger.Debug("history run saved", "run_id", runID, "unused", req.Snapshot.UnusedTotal)
}

func (a *App) historyWrite(project string, result *report.Result, elapsed time.Duration) ports.HistoryWrite {
	counts := result.Counts()
	snapshot := history.Snapshot{
		ProjectKey:       project,
		SchemaVersion:    history.SchemaVersion,
		Timestamp:        time.Now().UTC(),
		DurationMS:       elapsed.Milliseconds(),
		FileCount:        len(result.Files()),
		ImportCount:      len(result.ImportPaths()),
		SyntaxErrorCount: len(result.SyntaxErrors()),
		UnusedFunctions:  counts.Functions,
		UnusedProperties: counts.Properties,
		UnusedVariables:  counts.Variables,
		UnusedAttributes: counts.Attributes,
		UnusedTotal:      counts.Total,
	}

	occs := result.Unused()
	unused := make([]history.UnusedSymbol, 0, len(occs))
	for _, occ := range occs {
		file := occ.File
		if rel, err := filepath.Rel(a.workDir, file); err == nil && !strings.HasPrefix(rel, "..") {
			file = filepath.ToSlash(rel)
		}
		unused = append(unused, history.UnusedSymbol{
			Name: occ.Name,
			Kind: occ.Kind.String(),
			File: file,
			Line: occ.Line,
		})
	}
	return ports.HistoryWrite{Snapshot: snapshot, Unused: unused}
}

// HistoryReport builds the trend over the last limit runs of project.
func (a *App) HistoryReport(project string, limit int) (history.TrendReport, error) {
	if a.history == nil {
		return history.TrendReport{}, fmt.Errorf("history is not enabled")
	}
	if project == "" {
		a.mu.RLock()
		project = a.Config.History.Project
		a.mu.RUnlock()
	}
	snapshots, err := a.history.LoadRecent(project, limit)
	if err != nil {
		return history.TrendReport{}, err
	}
	return history.BuildTrendReport(project, snapshots, a.history)
}

// startHistoryWorker moves history writes off the scan path. It is a no-op
// without a history store.
func (a *App) startHistoryWorker() {
	if a.history == nil || a.historyWorker != nil {
		return
	}
	a.historyWorker = newHistoryWorker(a.history, a.logger)
}
