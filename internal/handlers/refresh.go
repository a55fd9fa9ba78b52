package handlers

import (
	"errors"
	"net/http"

	"heating_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const errRefresh = "refresh failed"

// @Summary      Poll now
// @Description  Runs one poll cycle immediately, independent of the timer.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  map[string]models.Reading
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string  "controller unreachable or returned an error"
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/refresh [post]
// @Security     BearerAuth
func (h *Handler) refresh(c *gin.Context) {
	snap, err := h.services.RunOnce(c.Request.Context())
	if err != nil {
		var perr *service.PollError
		switch {
		case errors.As(err, &perr):
			if h.log != nil {
				h.log.Infow("manual_refresh_failed", "err", err)
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrSchedulerStopped):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errRefresh, "manual_refresh_failed", err)
		}
		return
	}
	c.JSON(http.StatusOK, snap)
}
