package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dishaapp/disha/pkg/auth"
	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/service"
)

// AuthHandler handles registration, login, and session management.
type AuthHandler struct {
	userService *service.UserService
	sessions    *auth.Sessions
}

func NewAuthHandler(userService *service.UserService, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{userService: userService, sessions: sessions}
}

// RegisterPublicRoutes registers routes reachable without a session.
func (h *AuthHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
	}
}

// RegisterRoutes registers session-protected routes.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/auth/me", h.Me)
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Register(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrWeakPassword), errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.sessions.SetCookie(c, user.ID)
	c.JSON(http.StatusCreated, user)
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.sessions.SetCookie(c, user.ID)
	c.JSON(http.StatusOK, user)
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userService.Get(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
