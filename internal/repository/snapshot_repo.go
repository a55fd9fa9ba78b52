package repository

import (
	"context"
	"database/sql"

	"heating_monitor/internal/models"
)

type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite {
	return &SnapshotSQLite{db: db}
}

func (r *SnapshotSQLite) Save(ctx context.Context, s models.Snapshot) error {
	if s == nil {
		s = models.Snapshot{}
	}
	return writeRecord(ctx, r.db, keySnapshot, s)
}

func (r *SnapshotSQLite) Load(ctx context.Context) (models.Snapshot, error) {
	s := models.Snapshot{}
	if _, err := readRecord(ctx, r.db, keySnapshot, &s); err != nil {
		return nil, err
	}
	if s == nil {
		s = models.Snapshot{}
	}
	return s, nil
}

func (r *SnapshotSQLite) Revision(ctx context.Context) (int64, error) {
	return readRevision(ctx, r.db, keySnapshot)
}
