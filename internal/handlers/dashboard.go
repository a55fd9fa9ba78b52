package handlers

import (
	"net/http"
	"strconv"

	"heating_monitor/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errLoadSnapshot = "failed to load snapshot"
	errLoadHistory  = "failed to load history"
)

// snapshotETag is derived from the snapshot revision so views can poll with If-None-Match.
func snapshotETag(s models.Snapshot) string {
	return `"` + strconv.FormatInt(s.Revision(), 10) + `"`
}

// @Summary      Latest snapshot
// @Description  Readings of the last successful poll keyed by variable name. Empty before the first poll. Supports If-None-Match.
// @Tags         dashboard
// @Produce      json
// @Param        If-None-Match  header  string  false  "ETag of a previously received snapshot"
// @Success      200  {object}  map[string]models.Reading
// @Success      304  "not modified"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/snapshot [get]
func (h *Handler) getSnapshot(c *gin.Context) {
	snap, err := h.services.Snapshot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadSnapshot, "snapshot_load_failed", err)
		return
	}
	etag := snapshotETag(snap)
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Boiler temperature history
// @Description  Up to 24 points, oldest first.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, points"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	points, err := h.services.History(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadHistory, "history_load_failed", err)
		return
	}
	if points == nil {
		points = []models.HistoryPoint{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(points),
		"points": points,
	})
}
