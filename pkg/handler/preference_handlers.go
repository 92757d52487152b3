package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/service"
)

// PreferenceHandler handles per-user assistant preferences.
type PreferenceHandler struct {
	prefService *service.PreferenceService
}

func NewPreferenceHandler(prefService *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefService: prefService}
}

func (h *PreferenceHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/preferences", h.GetPreferences)
	r.PUT("/preferences", h.SetPreferences)
}

// GET /api/v1/preferences
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.prefService.Get(c.GetString("user_id")))
}

// PUT /api/v1/preferences
func (h *PreferenceHandler) SetPreferences(c *gin.Context) {
	var req models.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pref, err := h.prefService.Set(c.GetString("user_id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLanguage) || errors.Is(err, service.ErrInvalidTone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pref)
}
