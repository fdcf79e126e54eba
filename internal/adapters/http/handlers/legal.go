package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
)

// LegalHandler serves the legal structure picker.
type LegalHandler struct {
	service *app.LegalService
}

// NewLegalHandler creates a legal handler.
func NewLegalHandler(service *app.LegalService) *LegalHandler {
	return &LegalHandler{service: service}
}

// RegisterRoutes registers the /legal routes.
func (h *LegalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/legal")
	g.GET("/structures", h.Structures)
	g.POST("/recommend", h.Recommend)
	g.GET("/choice", h.Choice)
	g.PUT("/choice", h.Choose)
}

// Structures handles GET /api/v1/legal/structures.
func (h *LegalHandler) Structures(c *gin.Context) {
	structures, err := h.service.Structures(c.Request.Context())
	respond(c, http.StatusOK, gin.H{"structures": structures}, err)
}

// Recommend handles POST /api/v1/legal/recommend.
func (h *LegalHandler) Recommend(c *gin.Context) {
	var req dto.QuestionnaireRequest
	if !bind(c, &req) {
		return
	}

	matches, err := h.service.Recommend(c.Request.Context(), workspace(c), req.Questionnaire())
	respond(c, http.StatusOK, gin.H{"matches": matches}, err)
}

// Choice handles GET /api/v1/legal/choice.
func (h *LegalHandler) Choice(c *gin.Context) {
	choice, err := h.service.Choice(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, choice, err)
}

// Choose handles PUT /api/v1/legal/choice.
func (h *LegalHandler) Choose(c *gin.Context) {
	var req dto.ChoiceRequest
	if !bind(c, &req) {
		return
	}

	choice, err := h.service.Choose(c.Request.Context(), workspace(c), req.StructureID)
	respond(c, http.StatusOK, choice, err)
}
