package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dishaapp/disha/pkg/models"
	"github.com/dishaapp/disha/pkg/service"
)

// GoalHandler handles goal and daily-log HTTP requests.
type GoalHandler struct {
	goalService       *service.GoalService
	suggestionService *service.SuggestionService
}

func NewGoalHandler(goalService *service.GoalService, suggestionService *service.SuggestionService) *GoalHandler {
	return &GoalHandler{goalService: goalService, suggestionService: suggestionService}
}

func (h *GoalHandler) RegisterRoutes(r *gin.RouterGroup) {
	goals := r.Group("/goals")
	{
		goals.POST("", h.CreateGoal)
		goals.GET("", h.ListGoals)
		goals.GET("/:id", h.GetGoal)
		goals.PATCH("/:id", h.UpdateGoal)
		goals.DELETE("/:id", h.DeleteGoal)
		goals.POST("/:id/logs", h.LogGoal)
		goals.GET("/:id/logs", h.ListGoalLogs)
	}
	r.GET("/logs", h.ListLogs)
	r.GET("/suggestions", h.Suggest)
}

// POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req models.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := h.goalService.CreateGoal(c.GetString("user_id"), &req)
	if err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// GET /api/v1/goals?status=
func (h *GoalHandler) ListGoals(c *gin.Context) {
	goals, err := h.goalService.ListGoals(c.GetString("user_id"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// GET /api/v1/goals/:id
func (h *GoalHandler) GetGoal(c *gin.Context) {
	goal, err := h.goalService.GetGoal(c.GetString("user_id"), c.Param("id"))
	if err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goal)
}

// PATCH /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	var req models.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := h.goalService.UpdateGoal(c.GetString("user_id"), c.Param("id"), &req)
	if err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goal)
}

// DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	if err := h.goalService.DeleteGoal(c.GetString("user_id"), c.Param("id")); err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// POST /api/v1/goals/:id/logs
func (h *GoalHandler) LogGoal(c *gin.Context) {
	var req models.LogGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log, err := h.goalService.LogGoal(c.GetString("user_id"), c.Param("id"), &req)
	if err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, log)
}

// GET /api/v1/goals/:id/logs?days=
func (h *GoalHandler) ListGoalLogs(c *gin.Context) {
	h.listLogs(c, c.Param("id"))
}

// GET /api/v1/logs?days=
func (h *GoalHandler) ListLogs(c *gin.Context) {
	h.listLogs(c, "")
}

func (h *GoalHandler) listLogs(c *gin.Context, goalID string) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days < 1 || days > 90 {
		days = 7
	}
	logs, err := h.goalService.ListLogs(c.GetString("user_id"), goalID, days)
	if err != nil {
		c.JSON(goalErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// GET /api/v1/suggestions
func (h *GoalHandler) Suggest(c *gin.Context) {
	suggestion := h.suggestionService.Suggest(c.Request.Context(), c.GetString("user_id"))
	c.JSON(http.StatusOK, suggestion)
}

func goalErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotGoalOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrEmptyGoalTitle), errors.Is(err, service.ErrBadLogDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
