package broadcast

import (
	"context"
	"time"

	"heating_monitor/internal/logger"
	"heating_monitor/internal/models"
)

// SnapshotSource is the part of the snapshot cache the watcher reads.
type SnapshotSource interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Revision(ctx context.Context) (int64, error)
}

// StoreWatcher treats a change of the persisted snapshot as a notification.
type StoreWatcher struct {
	src      SnapshotSource
	hub      *Hub
	interval time.Duration
	log      *logger.Logger
	last     int64
}

func NewStoreWatcher(src SnapshotSource, hub *Hub, interval time.Duration, log *logger.Logger) *StoreWatcher {
	return &StoreWatcher{src: src, hub: hub, interval: interval, log: log}
}

// Run polls the store until ctx is canceled. The snapshot present at start is not re-delivered.
func (w *StoreWatcher) Run(ctx context.Context) {
	if rev, err := w.src.Revision(ctx); err == nil {
		w.last = rev
	}

	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.check(ctx)
		}
	}
}

func (w *StoreWatcher) check(ctx context.Context) {
	rev, err := w.src.Revision(ctx)
	if err != nil {
		w.log.Warnw("store_watch_revision_failed", "err", err)
		return
	}
	if rev == 0 || rev == w.last {
		return
	}
	s, err := w.src.Load(ctx)
	if err != nil {
		w.log.Warnw("store_watch_load_failed", "err", err)
		return
	}
	w.last = rev
	w.hub.Deliver(s)
}
