package service

import (
	"context"
	"errors"
	"testing"

	"heating_monitor/internal/models"
)

func TestValidateConfig(t *testing.T) {
	ok := models.DefaultConfig()
	if err := ValidateConfig(ok); err != nil {
		t.Fatalf("default config must be valid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*models.Config)
	}{
		{"zero interval", func(c *models.Config) { c.PollIntervalSeconds = 0 }},
		{"interval above one day", func(c *models.Config) { c.PollIntervalSeconds = MaxPollIntervalSeconds + 1 }},
		{"interval overflowing a duration", func(c *models.Config) { c.PollIntervalSeconds = 10_000_000_000 }},
		{"relative url", func(c *models.Config) { c.BaseURL = "pellets.local" }},
		{"ftp url", func(c *models.Config) { c.BaseURL = "ftp://pellets.local" }},
		{"missing variable", func(c *models.Config) { delete(c.Variables, models.VarRoomTemp) }},
		{"empty address", func(c *models.Config) { c.Variables[models.VarFlowTemp] = "" }},
		{"unknown variable", func(c *models.Config) {
			delete(c.Variables, models.VarRoomTemp)
			c.Variables["garage"] = "1/2/3"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultConfig()
			tt.mutate(&cfg)
			if err := ValidateConfig(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSettingsService_SaveReplacesAndNotifies(t *testing.T) {
	repo := &memConfig{}
	logs := &memLogs{}
	svc := NewSettingsService(repo, logs, nil)

	var notified []models.Config
	svc.OnSave(func(c models.Config) { notified = append(notified, c) })

	cfg := models.DefaultConfig()
	cfg.BaseURL = "http://controller.local:8080"
	cfg.PollIntervalSeconds = 15
	cfg.UseMock = false

	if err := svc.Save(context.Background(), cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if got := svc.Current(); got.BaseURL != cfg.BaseURL || got.PollIntervalSeconds != 15 || got.UseMock {
		t.Fatalf("current = %+v", got)
	}
	stored, _ := repo.Load(context.Background())
	if stored.BaseURL != cfg.BaseURL {
		t.Fatalf("persisted base url = %q", stored.BaseURL)
	}
	if len(notified) != 1 || notified[0].PollIntervalSeconds != 15 {
		t.Fatalf("hooks = %+v", notified)
	}
	if info := logs.byLevel(models.LevelInfo); len(info) != 1 || info[0].Message != "configuration updated" {
		t.Fatalf("info entries = %+v", info)
	}

	// The caller keeps no alias into the active config.
	cfg.Variables[models.VarBoilerTemp] = "mutated"
	if svc.Current().Variables[models.VarBoilerTemp] == "mutated" {
		t.Fatalf("active config shares the caller's map")
	}
}

func TestSettingsService_InvalidSaveKeepsCurrent(t *testing.T) {
	repo := &memConfig{}
	svc := NewSettingsService(repo, &memLogs{}, nil)
	called := false
	svc.OnSave(func(models.Config) { called = true })

	bad := models.DefaultConfig()
	bad.PollIntervalSeconds = -1
	if err := svc.Save(context.Background(), bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if called {
		t.Fatalf("hook must not run for an invalid config")
	}
	if svc.Current().PollIntervalSeconds != models.DefaultConfig().PollIntervalSeconds {
		t.Fatalf("current config changed")
	}
	if repo.cfg != nil {
		t.Fatalf("invalid config persisted")
	}
}

func TestSettingsService_StorageErrorKeepsCurrent(t *testing.T) {
	repo := &memConfig{saveErr: errStorage}
	svc := NewSettingsService(repo, &memLogs{}, nil)

	cfg := models.DefaultConfig()
	cfg.PollIntervalSeconds = 5
	if err := svc.Save(context.Background(), cfg); !errors.Is(err, errStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if svc.Current().PollIntervalSeconds == 5 {
		t.Fatalf("current config must not change when persisting fails")
	}
}

func TestValidateConfig_AcceptsOneDay(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.PollIntervalSeconds = MaxPollIntervalSeconds
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("one day must be accepted: %v", err)
	}
}

func TestSettingsService_LoadReplacesInvalidStoredConfig(t *testing.T) {
	stored := models.DefaultConfig()
	stored.PollIntervalSeconds = 10_000_000_000
	svc := NewSettingsService(&memConfig{cfg: &stored}, &memLogs{}, nil)

	cfg, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval() <= 0 || svc.Current().PollInterval() <= 0 {
		t.Fatalf("loaded interval must be usable, got %v", cfg.PollInterval())
	}
	if cfg.PollIntervalSeconds != models.DefaultConfig().PollIntervalSeconds {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSettingsService_Load(t *testing.T) {
	saved := models.DefaultConfig()
	saved.PollIntervalSeconds = 120
	repo := &memConfig{cfg: &saved}
	svc := NewSettingsService(repo, &memLogs{}, nil)

	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if svc.Current().PollIntervalSeconds != 120 {
		t.Fatalf("current interval = %d", svc.Current().PollIntervalSeconds)
	}
}

func TestNewService_SaveReconfiguresScheduler(t *testing.T) {
	repos := newMemRepository()
	svc, settings := NewService(repos, Deps{Fetcher: fetchFunc(nil)})
	if err := svc.Scheduler.Start(context.Background(), settings.Current().PollInterval()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer svc.Scheduler.Stop()

	cfg := settings.Current()
	cfg.PollIntervalSeconds = 7
	if err := svc.Save(context.Background(), cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := svc.Scheduler.Interval().Seconds(); got != 7 {
		t.Fatalf("scheduler interval = %vs, want 7s", got)
	}
	if svc.Scheduler.ActiveLoops() != 1 {
		t.Fatalf("active timers = %d", svc.Scheduler.ActiveLoops())
	}
}
