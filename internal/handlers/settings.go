package handlers

import (
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the site settings. Served on both the public and admin paths.
// GET /api/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "settings", settings)
}

// Update writes the given fields, creating the record on first write
// PUT /api/admin/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	settings, err := h.settingsService.Update(payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "settings", settings)
}
