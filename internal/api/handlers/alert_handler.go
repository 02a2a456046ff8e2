package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/holoo/stockcast/internal/service"
)

type AlertHandler struct {
	service *service.AlertService
}

func NewAlertHandler(service *service.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

func (h *AlertHandler) GetAlerts(c *gin.Context) {
	notifications, err := h.service.Current(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load alerts")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
