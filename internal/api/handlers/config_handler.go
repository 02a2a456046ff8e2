package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/holoo/stockcast/internal/config"
)

type ConfigHandler struct {
	store    *config.SettingsStore
	onUpdate func(config.SyncSettings)
}

func NewConfigHandler(store *config.SettingsStore, onUpdate func(config.SyncSettings)) *ConfigHandler {
	return &ConfigHandler{store: store, onUpdate: onUpdate}
}

func (h *ConfigHandler) GetConfig(c *gin.Context) {
	settings, err := h.store.Load()
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	var settings config.SyncSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid settings payload")
		return
	}

	if err := h.store.Save(settings); err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to save settings")
		return
	}

	if h.onUpdate != nil {
		h.onUpdate(settings)
	}

	log.Info().Bool("shopify_enabled", settings.ShopifyEnabled).Msg("sync settings updated")
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
