package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// ComplianceHandler serves the compliance tracker and regulatory updates.
type ComplianceHandler struct {
	service *app.ComplianceService
}

// NewComplianceHandler creates a compliance handler.
func NewComplianceHandler(service *app.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{service: service}
}

// RegisterRoutes registers the /compliance routes.
func (h *ComplianceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/compliance")
	g.GET("/tasks", h.Tasks)
	g.POST("/tasks", h.CreateTask)
	g.PUT("/tasks/:id", h.UpdateTask)
	g.PATCH("/tasks/:id/status", h.SetStatus)
	g.DELETE("/tasks/:id", h.DeleteTask)
	g.GET("/updates", h.Updates)
	g.POST("/updates/:id/acknowledge", h.Acknowledge)
	g.GET("/stats", h.Stats)
}

// Tasks handles GET /api/v1/compliance/tasks.
func (h *ComplianceHandler) Tasks(c *gin.Context) {
	var q dto.TaskQuery
	if !bindQuery(c, &q) {
		return
	}

	tasks, err := h.service.Tasks(c.Request.Context(), workspace(c), q.Filter())
	respond(c, http.StatusOK, gin.H{"tasks": tasks}, err)
}

// CreateTask handles POST /api/v1/compliance/tasks.
func (h *ComplianceHandler) CreateTask(c *gin.Context) {
	var req dto.TaskRequest
	if !bind(c, &req) {
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), workspace(c), req.Input())
	respond(c, http.StatusCreated, task, err)
}

// UpdateTask handles PUT /api/v1/compliance/tasks/:id.
func (h *ComplianceHandler) UpdateTask(c *gin.Context) {
	var req dto.TaskRequest
	if !bind(c, &req) {
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), workspace(c), c.Param("id"), req.Input())
	respond(c, http.StatusOK, task, err)
}

// SetStatus handles PATCH /api/v1/compliance/tasks/:id/status.
func (h *ComplianceHandler) SetStatus(c *gin.Context) {
	var req dto.TaskStatusRequest
	if !bind(c, &req) {
		return
	}

	task, err := h.service.SetStatus(c.Request.Context(), workspace(c), c.Param("id"), domain.TaskStatus(req.Status))
	respond(c, http.StatusOK, task, err)
}

// DeleteTask handles DELETE /api/v1/compliance/tasks/:id.
func (h *ComplianceHandler) DeleteTask(c *gin.Context) {
	respondEmpty(c, h.service.DeleteTask(c.Request.Context(), workspace(c), c.Param("id")))
}

// Updates handles GET /api/v1/compliance/updates.
func (h *ComplianceHandler) Updates(c *gin.Context) {
	updates, err := h.service.Updates(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, gin.H{"updates": updates}, err)
}

// Acknowledge handles POST /api/v1/compliance/updates/:id/acknowledge.
func (h *ComplianceHandler) Acknowledge(c *gin.Context) {
	respondEmpty(c, h.service.Acknowledge(c.Request.Context(), workspace(c), c.Param("id")))
}

// Stats handles GET /api/v1/compliance/stats.
func (h *ComplianceHandler) Stats(c *gin.Context) {
	s, err := h.service.Stats(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, s, err)
}
