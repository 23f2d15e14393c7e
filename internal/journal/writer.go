// Package journal persists committed store changes outside the writer lock.
package journal

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/storekeeper/internal/core/domain"
	"github.com/rl1809/storekeeper/internal/port"
)

const (
	applyTimeout = 5 * time.Second
	maxAttempts  = 3
	retryBackoff = 200 * time.Millisecond
)

// Writer collects changes and applies them in order from a single goroutine.
// Publish never waits for the snapshot store: pending changes are held in
// memory until Run gets to them.
type Writer struct {
	mu       sync.Mutex
	pending  []domain.Change
	closed   bool
	backlog  int
	degraded bool
	wake     chan struct{}

	repo   port.SnapshotRepository
	mirror port.StockMirror
	logger *zap.Logger
}

// NewWriter returns a Writer. repo or mirror may be nil to skip that target.
// A warning is logged when more than backlog changes are pending.
func NewWriter(repo port.SnapshotRepository, mirror port.StockMirror, backlog int, logger *zap.Logger) *Writer {
	return &Writer{
		backlog: backlog,
		wake:    make(chan struct{}, 1),
		repo:    repo,
		mirror:  mirror,
		logger:  logger,
	}
}

// Publish appends a change to the pending list. Changes published after
// Close are logged and dropped.
func (w *Writer) Publish(change domain.Change) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Error("change published after close, dropped",
			zap.String("kind", string(change.Kind)))
		return
	}
	w.pending = append(w.pending, change)
	pending := len(w.pending)
	warn := pending > w.backlog && !w.degraded
	if warn {
		w.degraded = true
	}
	w.mu.Unlock()

	if warn {
		w.logger.Warn("journal is falling behind",
			zap.Int("pending", pending),
			zap.Int("backlog", w.backlog))
	}
	w.signal()
}

// Pending reports how many changes are waiting to be applied.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Close stops accepting changes. Run returns once everything pending is applied.
func (w *Writer) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.signal()
}

func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run applies pending changes until Close is called and nothing is left.
func (w *Writer) Run() {
	for {
		w.mu.Lock()
		batch := w.pending
		w.pending = nil
		closed := w.closed
		if len(batch) == 0 && w.degraded {
			w.degraded = false
			w.logger.Info("journal caught up")
		}
		w.mu.Unlock()

		if len(batch) == 0 {
			if closed {
				return
			}
			<-w.wake
			continue
		}
		for _, change := range batch {
			w.apply(change)
		}
	}
}

func (w *Writer) apply(change domain.Change) {
	if w.repo != nil {
		var err error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
			err = w.repo.Apply(ctx, change)
			cancel()
			if err == nil {
				break
			}
			w.logger.Warn("failed to persist change",
				zap.String("kind", string(change.Kind)),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if attempt < maxAttempts {
				time.Sleep(retryBackoff * time.Duration(attempt))
			}
		}
		if err != nil {
			w.logger.Error("CRITICAL: change dropped, snapshot store is behind memory",
				zap.String("kind", string(change.Kind)),
				zap.Error(err))
		}
	}

	if w.mirror != nil {
		w.syncMirror(change)
	}
}

func (w *Writer) syncMirror(change domain.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	switch change.Kind {
	case domain.ChangeItemRemoved:
		if err := w.mirror.DeleteStock(ctx, change.ItemID); err != nil {
			w.logger.Warn("failed to drop mirrored stock",
				zap.Uint64("item_id", change.ItemID),
				zap.Error(err))
		}
	default:
		for _, item := range change.Items {
			if err := w.mirror.SetStock(ctx, item.ID, item.Quantity); err != nil {
				w.logger.Warn("failed to mirror stock",
					zap.Uint64("item_id", item.ID),
					zap.Error(err))
			}
		}
	}
}
