package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/service"
)

// AdminHandler exposes the AI settings panel to admin accounts. API keys
// never leave the server unmasked.
type AdminHandler struct {
	settingsService *service.SettingsService
	userService     *service.UserService
}

func NewAdminHandler(settingsService *service.SettingsService, userService *service.UserService) *AdminHandler {
	return &AdminHandler{settingsService: settingsService, userService: userService}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin", h.requireAdmin)
	{
		admin.GET("/settings", h.GetSettings)
		admin.PUT("/settings", h.UpdateSettings)
	}
}

// requireAdmin rejects sessions whose account lacks the admin role.
func (h *AdminHandler) requireAdmin(c *gin.Context) {
	if !h.userService.IsAdmin(c.GetString("user_id")) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
	}
}

// GET /api/v1/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settingsService.View())
}

// PUT /api/v1/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingsService.Update(&req); err != nil {
		if errors.Is(err, service.ErrInvalidProvider) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.settingsService.View())
}
