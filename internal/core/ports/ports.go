package ports

import (
	"context"
	"time"

	"wake/internal/data/history"
	"wake/internal/engine/symbols"
)

// ScanResult is the data a completed scan exposes to downstream consumers
// such as a project minimiser: the files reached only through imports and
// the unused symbols ordered by file and line.
type ScanResult interface {
	ImportPaths() []string
	Unused() []symbols.Occurrence
}

// HistoryStore abstracts snapshot persistence for trend reporting.
type HistoryStore interface {
	SaveRun(snapshot history.Snapshot, unused []history.UnusedSymbol) (string, error)
	LoadSnapshots(projectKey string, since time.Time) ([]history.Snapshot, error)
	LoadRecent(projectKey string, limit int) ([]history.Snapshot, error)
	LoadUnused(runID string) ([]history.UnusedSymbol, error)
	Close() error
}

// HistoryWrite is one run waiting to be persisted.
type HistoryWrite struct {
	Snapshot history.Snapshot
	Unused   []history.UnusedSymbol
}

type EnqueueResult string

const (
	EnqueueAccepted EnqueueResult = "accepted"
	EnqueueDropped  EnqueueResult = "dropped"
)

// HistoryQueue decouples watch-mode scans from history writes.
type HistoryQueue interface {
	Enqueue(req HistoryWrite) EnqueueResult
	DequeueBatch(ctx context.Context, maxItems int, wait time.Duration) ([]HistoryWrite, error)
	Close() error
	Len() int
}
