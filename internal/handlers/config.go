package handlers

import (
	"errors"
	"net/http"

	"heating_monitor/internal/models"
	"heating_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errSaveConfig      = "failed to save configuration"
	errInvalidBodyPref = "invalid body: "
)

// ConfigRequest is the payload of PUT /api/v1/config. It replaces the whole configuration.
type ConfigRequest struct {
	BaseURL             string            `json:"base_url" binding:"required" example:"https://pellets.bravokilo.cloud"`
	PollIntervalSeconds int               `json:"poll_interval_seconds" binding:"required" example:"60"`
	UseMock             bool              `json:"use_mock" example:"true"`
	Variables           map[string]string `json:"variables" binding:"required"`
}

func (r ConfigRequest) toModel() models.Config {
	return models.Config{
		BaseURL:             r.BaseURL,
		PollIntervalSeconds: r.PollIntervalSeconds,
		UseMock:             r.UseMock,
		Variables:           r.Variables,
	}
}

// @Summary      Active configuration
// @Tags         config
// @Produce      json
// @Success      200  {object}  models.Config
// @Router       /api/v1/config [get]
func (h *Handler) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Current())
}

// @Summary      Replace configuration
// @Description  Validates and stores the configuration, then restarts the poll timer with the new interval.
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        body  body      ConfigRequest  true  "Configuration"
// @Success      200   {object}  models.Config
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/config [put]
// @Security     BearerAuth
func (h *Handler) putConfig(c *gin.Context) {
	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	if err := h.services.Save(c.Request.Context(), req.toModel()); err != nil {
		if errors.Is(err, service.ErrInvalidConfig) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveConfig, "config_save_failed", err)
		return
	}
	c.JSON(http.StatusOK, h.services.Current())
}
