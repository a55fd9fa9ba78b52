package service

import "heating_monitor/internal/models"

// LogFilter narrows the dashboard log. A zero value returns everything.
type LogFilter struct {
	Level models.LogLevel // "", "info", "success" or "error"
	Limit int             // 0 means all retained entries
}
