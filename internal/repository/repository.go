package repository

import (
	"context"
	"database/sql"

	"heating_monitor/internal/models"
)

// Authorization stores operator accounts.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ConfigRepo persists the dashboard configuration.
type ConfigRepo interface {
	// Load returns the saved config, or the built-in default if none was saved yet.
	Load(ctx context.Context) (models.Config, error)
	Save(ctx context.Context, cfg models.Config) error
	Defaults() models.Config
}

// SnapshotRepo persists the latest successful poll result.
type SnapshotRepo interface {
	Save(ctx context.Context, s models.Snapshot) error
	// Load returns an empty snapshot if none was saved yet.
	Load(ctx context.Context) (models.Snapshot, error)
	// Revision changes on every Save. Zero means nothing saved yet.
	Revision(ctx context.Context) (int64, error)
}

// HistoryRepo keeps the bounded boiler temperature history, oldest first.
type HistoryRepo interface {
	Append(ctx context.Context, p models.HistoryPoint) error
	List(ctx context.Context) ([]models.HistoryPoint, error)
}

// LogRepo keeps the bounded dashboard log, newest first.
type LogRepo interface {
	Append(ctx context.Context, e models.LogEntry) error
	List(ctx context.Context) ([]models.LogEntry, error)
	Clear(ctx context.Context) error
}

type Repository struct {
	Config   ConfigRepo
	Snapshot SnapshotRepo
	History  HistoryRepo
	Logs     LogRepo
	Auth     Authorization
}

// NewRepository builds every repository on top of one SQLite handle.
// defaults is returned by Config.Load until a config has been saved.
func NewRepository(db *sql.DB, defaults models.Config) *Repository {
	return &Repository{
		Config:   NewConfigSQLite(db, defaults),
		Snapshot: NewSnapshotSQLite(db),
		History:  NewHistorySQLite(db),
		Logs:     NewLogSQLite(db),
		Auth:     NewUserRepository(db),
	}
}
