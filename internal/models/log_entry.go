package models

import "time"

// LogLevel is the severity of a dashboard log entry.
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelSuccess LogLevel = "success"
	LevelError   LogLevel = "error"
)

// Valid reports whether l is one of the known levels.
func (l LogLevel) Valid() bool {
	switch l {
	case LevelInfo, LevelSuccess, LevelError:
		return true
	}
	return false
}

// LogEntry is a single line of the dashboard log, stored newest first.
type LogEntry struct {
	ID             string    `json:"id"`
	TimestampLabel string    `json:"timestamp_label"` // HH:MM:SS
	Level          LogLevel  `json:"level"`
	Message        string    `json:"message"`
	OccurredAt     time.Time `json:"occurred_at"`
}
