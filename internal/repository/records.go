package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Record keys in the records table.
const (
	keyConfig   = "config"
	keySnapshot = "latest_snapshot"
	keyHistory  = "history"
	keyLogs     = "logs"
)

// Bounds of the rolling records.
const (
	MaxHistoryPoints = 24
	MaxLogEntries    = 50
)

const (
	selectRecordSQL   = `SELECT value FROM records WHERE key = ?`
	selectRevisionSQL = `SELECT updated_at FROM records WHERE key = ?`

	upsertRecordSQL = `
		INSERT INTO records (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`
)

// queryer and execer are satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// readRecord decodes the JSON value stored under key into dst.
// Returns false with a nil error when the key was never written.
func readRecord(ctx context.Context, q queryer, key string, dst any) (bool, error) {
	var raw string
	if err := q.QueryRowContext(ctx, selectRecordSQL, key).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select record %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode record %q: %w", key, err)
	}
	return true, nil
}

// writeRecord replaces the value stored under key.
func writeRecord(ctx context.Context, e execer, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", key, err)
	}
	if _, err := e.ExecContext(ctx, upsertRecordSQL, key, string(b), time.Now().UnixNano()); err != nil {
		return fmt.Errorf("upsert record %q: %w", key, err)
	}
	return nil
}

// readRevision returns the updated_at of key, or 0 if it was never written.
func readRevision(ctx context.Context, q queryer, key string) (int64, error) {
	var rev int64
	if err := q.QueryRowContext(ctx, selectRevisionSQL, key).Scan(&rev); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("select revision %q: %w", key, err)
	}
	return rev, nil
}

// updateList runs a read-modify-write of a JSON list record in one transaction.
func updateList[T any](ctx context.Context, db *sql.DB, key string, update func([]T) []T) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update of %q: %w", key, err)
	}
	defer func() { _ = tx.Rollback() }()

	var items []T
	if _, err := readRecord(ctx, tx, key, &items); err != nil {
		return err
	}
	if err := writeRecord(ctx, tx, key, update(items)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update of %q: %w", key, err)
	}
	return nil
}

// pushBack appends v and drops the oldest items beyond limit.
func pushBack[T any](items []T, v T, limit int) []T {
	items = append(items, v)
	if len(items) > limit {
		items = items[len(items)-limit:]
	}
	return items
}

// pushFront prepends v and drops the oldest items beyond limit.
func pushFront[T any](items []T, v T, limit int) []T {
	out := make([]T, 0, min(len(items)+1, limit))
	out = append(out, v)
	for _, it := range items {
		if len(out) == limit {
			break
		}
		out = append(out, it)
	}
	return out
}
