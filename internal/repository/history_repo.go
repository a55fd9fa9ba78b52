package repository

import (
	"context"
	"database/sql"
	"time"

	"heating_monitor/internal/models"
)

type HistorySQLite struct {
	db *sql.DB
}

func NewHistorySQLite(db *sql.DB) *HistorySQLite {
	return &HistorySQLite{db: db}
}

// Append adds p at the end and evicts the oldest points beyond MaxHistoryPoints.
func (r *HistorySQLite) Append(ctx context.Context, p models.HistoryPoint) error {
	if p.RecordedAt.IsZero() {
		p.RecordedAt = time.Now().UTC()
	}
	return updateList(ctx, r.db, keyHistory, func(points []models.HistoryPoint) []models.HistoryPoint {
		return pushBack(points, p, MaxHistoryPoints)
	})
}

// List returns the history oldest first; empty when nothing was recorded.
func (r *HistorySQLite) List(ctx context.Context) ([]models.HistoryPoint, error) {
	points := []models.HistoryPoint{}
	if _, err := readRecord(ctx, r.db, keyHistory, &points); err != nil {
		return nil, err
	}
	if points == nil {
		points = []models.HistoryPoint{}
	}
	return points, nil
}
