package repository

import (
	"context"
	"database/sql"

	"heating_monitor/internal/models"
)

type ConfigSQLite struct {
	db       *sql.DB
	defaults models.Config
}

func NewConfigSQLite(db *sql.DB, defaults models.Config) *ConfigSQLite {
	return &ConfigSQLite{db: db, defaults: defaults.Clone()}
}

// Load returns the saved config or a copy of the defaults.
func (r *ConfigSQLite) Load(ctx context.Context) (models.Config, error) {
	var cfg models.Config
	found, err := readRecord(ctx, r.db, keyConfig, &cfg)
	if err != nil {
		return models.Config{}, err
	}
	if !found {
		return r.defaults.Clone(), nil
	}
	return cfg, nil
}

// Defaults returns a copy of the config served before the first save.
func (r *ConfigSQLite) Defaults() models.Config {
	return r.defaults.Clone()
}

// Save replaces the stored config as a whole.
func (r *ConfigSQLite) Save(ctx context.Context, cfg models.Config) error {
	return writeRecord(ctx, r.db, keyConfig, cfg)
}
