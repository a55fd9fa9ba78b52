package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"heating_monitor/internal/models"
	"heating_monitor/internal/repository"
)

var errStorage = errors.New("storage unavailable")

type memSnapshots struct {
	mu      sync.Mutex
	snap    models.Snapshot
	rev     int64
	saveErr error
	saves   int
}

func (m *memSnapshots) Save(_ context.Context, s models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = s
	m.rev++
	m.saves++
	return nil
}

func (m *memSnapshots) Load(context.Context) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return models.Snapshot{}, nil
	}
	return m.snap, nil
}

func (m *memSnapshots) Revision(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rev, nil
}

type memHistory struct {
	mu     sync.Mutex
	points []models.HistoryPoint
}

func (m *memHistory) Append(_ context.Context, p models.HistoryPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, p)
	return nil
}

func (m *memHistory) List(context.Context) ([]models.HistoryPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.HistoryPoint(nil), m.points...), nil
}

type memLogs struct {
	mu      sync.Mutex
	entries []models.LogEntry // newest first
	listErr error
}

func (m *memLogs) Append(_ context.Context, e models.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]models.LogEntry{e}, m.entries...)
	return nil
}

func (m *memLogs) List(context.Context) ([]models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.LogEntry(nil), m.entries...), nil
}

func (m *memLogs) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

func (m *memLogs) byLevel(level models.LogLevel) []models.LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LogEntry
	for _, e := range m.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

type memConfig struct {
	mu      sync.Mutex
	cfg     *models.Config
	saveErr error
}

func (m *memConfig) Load(context.Context) (models.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg == nil {
		return models.DefaultConfig(), nil
	}
	return m.cfg.Clone(), nil
}

func (m *memConfig) Defaults() models.Config { return models.DefaultConfig() }

func (m *memConfig) Save(_ context.Context, cfg models.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c := cfg.Clone()
	m.cfg = &c
	return nil
}

type staticConfig models.Config

func (c staticConfig) Current() models.Config { return models.Config(c).Clone() }

type fetchFunc func(ctx context.Context, address string, cfg models.Config) (models.Reading, error)

func (f fetchFunc) Fetch(ctx context.Context, address string, cfg models.Config) (models.Reading, error) {
	return f(ctx, address, cfg)
}

type recordingPublisher struct {
	mu    sync.Mutex
	snaps []models.Snapshot
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, s models.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, s)
	return p.err
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 1, 15, 14, 5, 9, 0, time.Local)
	return func() time.Time { return t }
}

// newMemRepository returns in-memory repositories with a snapshot already cached.
func newMemRepository() *repository.Repository {
	return &repository.Repository{
		Config:   &memConfig{},
		Snapshot: &memSnapshots{rev: 1},
		History:  &memHistory{},
		Logs:     &memLogs{},
		Auth:     newMemOperators(),
	}
}
