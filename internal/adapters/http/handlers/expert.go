package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
)

// ExpertHandler serves the expert network sign-up.
type ExpertHandler struct {
	service *app.ExpertService
}

// NewExpertHandler creates an expert handler.
func NewExpertHandler(service *app.ExpertService) *ExpertHandler {
	return &ExpertHandler{service: service}
}

// RegisterRoutes registers the /experts routes.
func (h *ExpertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/experts")
	g.GET("", h.List)
	g.POST("", h.Register)
}

// Register handles POST /api/v1/experts. A second sign-up with the same
// email is a conflict.
func (h *ExpertHandler) Register(c *gin.Context) {
	var req dto.ExpertRequest
	if !bind(c, &req) {
		return
	}

	reg, err := h.service.Register(c.Request.Context(), workspace(c), req.Registration())
	respond(c, http.StatusCreated, reg, err)
}

// List handles GET /api/v1/experts.
func (h *ExpertHandler) List(c *gin.Context) {
	experts, err := h.service.List(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, gin.H{"experts": experts}, err)
}
