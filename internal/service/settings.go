package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"heating_monitor/internal/logger"
	"heating_monitor/internal/models"
	"heating_monitor/internal/repository"
)

// ErrInvalidConfig is wrapped by every validation failure of Save.
var ErrInvalidConfig = errors.New("invalid configuration")

// MaxPollIntervalSeconds caps the interval at one day.
const MaxPollIntervalSeconds = 24 * 60 * 60

// SettingsService holds the active configuration. Saving replaces it
// wholesale and notifies the OnSave hooks (the scheduler restarts its timer).
type SettingsService struct {
	repo repository.ConfigRepo
	logs repository.LogRepo
	log  *logger.Logger

	mu      sync.RWMutex
	current models.Config

	saveMu sync.Mutex
	hooks  []func(models.Config)
}

func NewSettingsService(repo repository.ConfigRepo, logs repository.LogRepo, log *logger.Logger) *SettingsService {
	if log == nil {
		log = logger.Nop()
	}
	return &SettingsService{
		repo:    repo,
		logs:    logs,
		log:     log,
		current: models.DefaultConfig(),
	}
}

// Load reads the persisted configuration into memory. A stored config that
// no longer validates is replaced by the defaults so the service can start.
func (s *SettingsService) Load(ctx context.Context) (models.Config, error) {
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return models.Config{}, fmt.Errorf("load config: %w", err)
	}
	if verr := ValidateConfig(cfg); verr != nil {
		s.log.Warnw("stored_config_invalid", "err", verr)
		cfg = s.repo.Defaults()
	}
	s.mu.Lock()
	s.current = cfg.Clone()
	s.mu.Unlock()
	return cfg, nil
}

// Current returns a copy of the active configuration.
func (s *SettingsService) Current() models.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// OnSave registers fn to run after every successful Save. Not safe to call
// concurrently with Save.
func (s *SettingsService) OnSave(fn func(models.Config)) {
	s.hooks = append(s.hooks, fn)
}

// Save validates, persists and activates cfg.
func (s *SettingsService) Save(ctx context.Context, cfg models.Config) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	cfg = cfg.Clone()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.repo.Save(ctx, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	s.log.Infow("config_saved",
		"base_url", cfg.BaseURL,
		"poll_interval_s", cfg.PollIntervalSeconds,
		"use_mock", cfg.UseMock,
	)
	if err := s.logs.Append(ctx, models.LogEntry{Level: models.LevelInfo, Message: "configuration updated"}); err != nil {
		s.log.Warnw("log_append_failed", "err", err)
	}

	for _, fn := range s.hooks {
		fn(cfg.Clone())
	}
	return nil
}

// ValidateConfig checks the fields a poll cycle depends on.
func ValidateConfig(cfg models.Config) error {
	if cfg.PollIntervalSeconds <= 0 || cfg.PollIntervalSeconds > MaxPollIntervalSeconds {
		return fmt.Errorf("%w: poll_interval_seconds must be between 1 and %d", ErrInvalidConfig, MaxPollIntervalSeconds)
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url must be an absolute http(s) URL", ErrInvalidConfig)
	}
	if len(cfg.Variables) != len(models.VariableNames) {
		return fmt.Errorf("%w: expected %d variables, got %d", ErrInvalidConfig, len(models.VariableNames), len(cfg.Variables))
	}
	for _, name := range models.VariableNames {
		if cfg.Variables[name] == "" {
			return fmt.Errorf("%w: variable %q has no address", ErrInvalidConfig, name)
		}
	}
	return nil
}
