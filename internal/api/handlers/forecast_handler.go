package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/holoo/stockcast/internal/config"
	"github.com/holoo/stockcast/internal/service"
)

type ForecastHandler struct {
	service  *service.ForecastService
	settings *config.SettingsStore
}

func NewForecastHandler(svc *service.ForecastService, settings *config.SettingsStore) *ForecastHandler {
	return &ForecastHandler{service: svc, settings: settings}
}

// RunForecast triggers a forecast run. The optional mode query parameter
// selects snapshot (default) or rolling.
func (h *ForecastHandler) RunForecast(c *gin.Context) {
	var (
		summary *service.RunSummary
		err     error
	)
	switch c.DefaultQuery("mode", "snapshot") {
	case "rolling":
		summary, err = h.service.RunRolling(c.Request.Context())
	case "snapshot":
		summary, err = h.service.RunSnapshot(c.Request.Context())
	default:
		errorResponse(c, http.StatusBadRequest, "mode must be snapshot or rolling")
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "forecast run failed")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ForecastHandler) GetSyncStatus(c *gin.Context) {
	var settings config.SyncSettings
	if h.settings != nil {
		loaded, err := h.settings.Load()
		if err != nil {
			errorResponse(c, http.StatusInternalServerError, "failed to load settings")
			return
		}
		settings = loaded
	}

	status, err := h.service.Status(settings)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to read sync status")
		return
	}
	c.JSON(http.StatusOK, status)
}
