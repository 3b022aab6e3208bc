package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"wake/internal/core/ports"
	"wake/internal/data/queue"
)

const (
	historyQueueCapacity = 16
	historyBatchSize     = 4
	historyFlushInterval = 250 * time.Millisecond
)

// historyWorker persists watch-mode runs off the scan path. Writes that do
// not fit in the queue are dropped with a warning.
type historyWorker struct {
	queue  ports.HistoryQueue
	store  ports.HistoryStore
	logger *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func newHistoryWorker(store ports.HistoryStore, logger *slog.Logger) *historyWorker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &historyWorker{
		queue:  queue.NewMemoryQueue(historyQueueCapacity),
		store:  store,
		logger: logger,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go w.run(ctx)
	return w
}

func (w *historyWorker) enqueue(req ports.HistoryWrite) {
	if w.queue.Enqueue(req) == ports.EnqueueDropped {
		w.logger.Warn("history write dropped", "project", req.Snapshot.ProjectKey, "pending", w.queue.Len())
	}
}

func (w *historyWorker) run(ctx context.Context) {
	defer close(w.done)
	for {
		batch, err := w.queue.DequeueBatch(ctx, historyBatchSize, historyFlushInterval)
		w.apply(batch)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
				w.logger.Warn("history dequeue failed", "error", err)
				continue
			}
			return
		}
	}
}

func (w *historyWorker) apply(batch []ports.HistoryWrite) {
	for _, req := range batch {
		runID, err := w.store.SaveRun(req.Snapshot, req.Unused)
		if err != nil {
			w.logger.Warn("history write failed", "project", req.Snapshot.ProjectKey, "error", err)
			continue
		}
		w.logger.Debug("history run saved", "run_id", runID, "unused", req.Snapshot.UnusedTotal)
	}
}

// stop closes the queue and waits for pending writes to be applied. When ctx
// expires first the worker is cancelled and the remaining writes are lost.
func (w *historyWorker) stop(ctx context.Context) error {
	if err := w.queue.Close(); err != nil {
		return err
	}
	select {
	case <-w.done:
		w.cancel()
		return nil
	case <-ctx.Done():
		w.cancel()
		<-w.done
		return ctx.Err()
	}
}
