package repository

import (
	"context"
	"database/sql"
	"time"

	"heating_monitor/internal/models"

	"github.com/google/uuid"
)

type LogSQLite struct {
	db *sql.DB
}

func NewLogSQLite(db *sql.DB) *LogSQLite { return &LogSQLite{db: db} }

// Append inserts e at the front, keeping at most MaxLogEntries.
// Missing ID, time or label are filled in.
func (r *LogSQLite) Append(ctx context.Context, e models.LogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	if e.TimestampLabel == "" {
		e.TimestampLabel = e.OccurredAt.Format(time.TimeOnly)
	}
	e.OccurredAt = e.OccurredAt.UTC()

	return updateList(ctx, r.db, keyLogs, func(entries []models.LogEntry) []models.LogEntry {
		return pushFront(entries, e, MaxLogEntries)
	})
}

// List returns the log newest first.
func (r *LogSQLite) List(ctx context.Context) ([]models.LogEntry, error) {
	entries := []models.LogEntry{}
	if _, err := readRecord(ctx, r.db, keyLogs, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	return entries, nil
}

// Clear drops every entry.
func (r *LogSQLite) Clear(ctx context.Context) error {
	return writeRecord(ctx, r.db, keyLogs, []models.LogEntry{})
}
