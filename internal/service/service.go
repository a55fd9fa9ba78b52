package service

import (
	"context"

	"heating_monitor/internal/broadcast"
	"heating_monitor/internal/fetcher"
	"heating_monitor/internal/logger"
	"heating_monitor/internal/metrics"
	"heating_monitor/internal/models"
	"heating_monitor/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Settings owns the active dashboard configuration.
type Settings interface {
	Current() models.Config
	Save(ctx context.Context, cfg models.Config) error
}

// Poller runs one fetch-and-cache cycle. Timer and manual refreshes share it.
// The Service exposes the Scheduler here so manual runs are tracked on shutdown.
type Poller interface {
	RunOnce(ctx context.Context) (models.Snapshot, error)
}

// Dashboard exposes the cached records to views.
type Dashboard interface {
	Snapshot(ctx context.Context) (models.Snapshot, error)
	History(ctx context.Context) ([]models.HistoryPoint, error)
	Logs(ctx context.Context, f LogFilter) ([]models.LogEntry, error)
	ClearLogs(ctx context.Context) error
}

// Feed delivers snapshots published by any poller to subscribed views.
type Feed interface {
	OnReceive(fn broadcast.Handler) (unsubscribe func())
}

// Service aggregates everything the HTTP layer and main need.
type Service struct {
	Settings
	Poller
	Dashboard
	Feed
	Authorization

	Scheduler *Scheduler
}

// Deps are the collaborators NewService does not build itself.
type Deps struct {
	Fetcher fetcher.Fetcher
	Sync    broadcast.Channel
	Metrics metrics.Collector
	Auth    AuthConfig
	Log     *logger.Logger
}

// NewService wires repositories and collaborators into the concrete services.
// Settings.Load must run before the scheduler is started.
func NewService(repos *repository.Repository, deps Deps) (*Service, *SettingsService) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Noop()
	}

	settings := NewSettingsService(repos.Config, repos.Logs, log.Named("settings"))
	poller := NewPollerService(PollerDeps{
		Config:    settings,
		Fetcher:   deps.Fetcher,
		Snapshots: repos.Snapshot,
		History:   repos.History,
		Logs:      repos.Logs,
		Publisher: deps.Sync,
		Metrics:   collector,
		Log:       log.Named("poller"),
	})
	scheduler := NewScheduler(poller, repos.Snapshot, log.Named("scheduler"))
	settings.OnSave(func(cfg models.Config) {
		scheduler.Reconfigure(cfg.PollInterval())
	})

	return &Service{
		Settings:      settings,
		Poller:        scheduler,
		Dashboard:     NewDashboardService(repos.Snapshot, repos.History, repos.Logs),
		Feed:          deps.Sync,
		Authorization: NewAuthService(repos.Auth, deps.Auth),
		Scheduler:     scheduler,
	}, settings
}
