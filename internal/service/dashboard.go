package service

import (
	"context"
	"errors"
	"fmt"

	"heating_monitor/internal/models"
	"heating_monitor/internal/repository"
)

// ErrInvalidFilter is returned for an unknown log level filter.
var ErrInvalidFilter = errors.New("invalid log filter")

// DashboardService reads the cached records for the views.
type DashboardService struct {
	snapshots repository.SnapshotRepo
	history   repository.HistoryRepo
	logs      repository.LogRepo
}

func NewDashboardService(s repository.SnapshotRepo, h repository.HistoryRepo, l repository.LogRepo) *DashboardService {
	return &DashboardService{snapshots: s, history: h, logs: l}
}

func (d *DashboardService) Snapshot(ctx context.Context) (models.Snapshot, error) {
	return d.snapshots.Load(ctx)
}

func (d *DashboardService) History(ctx context.Context) ([]models.HistoryPoint, error) {
	return d.history.List(ctx)
}

// Logs returns entries newest first, optionally narrowed to one level.
func (d *DashboardService) Logs(ctx context.Context, f LogFilter) ([]models.LogEntry, error) {
	if f.Level != "" && !f.Level.Valid() {
		return nil, fmt.Errorf("%w: unknown level %q", ErrInvalidFilter, f.Level)
	}
	if f.Limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", ErrInvalidFilter)
	}
	entries, err := d.logs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.LogEntry, 0, len(entries))
	for _, e := range entries {
		if f.Level != "" && e.Level != f.Level {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (d *DashboardService) ClearLogs(ctx context.Context) error {
	return d.logs.Clear(ctx)
}
