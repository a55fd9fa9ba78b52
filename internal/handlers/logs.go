package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"heating_monitor/internal/models"
	"heating_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errLevelInvalid = "invalid 'level'; use info, success or error"
	errLimitInvalid = "invalid 'limit'; use a positive integer"
	errLoadLogs     = "failed to load logs"
	errClearLogs    = "failed to clear logs"
)

// @Summary      List log entries
// @Description  Newest first, at most 50 entries are retained.
// @Tags         logs
// @Produce      json
// @Param        level  query   string  false  "Entry level"  Enums(info,success,error)
// @Param        limit  query   int     false  "Maximum number of entries"
// @Success      200    {object}  map[string]interface{}  "count, entries"
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	var filter service.LogFilter

	// Normalize level: trim spaces and lowercase to match stored values.
	if lv := strings.ToLower(strings.TrimSpace(c.Query("level"))); lv != "" {
		filter.Level = models.LogLevel(lv)
		if !filter.Level.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLevelInvalid})
			return
		}
	}
	if qs := c.Query("limit"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
		filter.Limit = n
	}

	entries, err := h.services.Logs(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLogs, "logs_list_failed", err, "level", filter.Level)
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}

// @Summary      Clear the log
// @Tags         logs
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/logs [delete]
// @Security     BearerAuth
func (h *Handler) clearLogs(c *gin.Context) {
	if err := h.services.ClearLogs(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errClearLogs, "logs_clear_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
