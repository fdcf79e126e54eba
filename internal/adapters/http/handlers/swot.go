package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// SWOTHandler serves the SWOT worksheet.
type SWOTHandler struct {
	service *app.SWOTService
}

// NewSWOTHandler creates a SWOT handler.
func NewSWOTHandler(service *app.SWOTService) *SWOTHandler {
	return &SWOTHandler{service: service}
}

// RegisterRoutes registers the /swot routes.
func (h *SWOTHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/swot")
	g.GET("", h.Get)
	g.PUT("", h.Replace)
	g.GET("/summary", h.Summary)
	g.POST("/strategies", h.GenerateStrategies)
	g.GET("/export", h.Export)
	g.POST("/import", h.Import)
	g.POST("/:quadrant/items", h.AddItem)
	g.PUT("/:quadrant/items/:id", h.UpdateItem)
	g.DELETE("/:quadrant/items/:id", h.DeleteItem)
}

// Get handles GET /api/v1/swot.
func (h *SWOTHandler) Get(c *gin.Context) {
	a, err := h.service.Get(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, a, err)
}

// Replace handles PUT /api/v1/swot. The body replaces the whole worksheet.
func (h *SWOTHandler) Replace(c *gin.Context) {
	var a domain.SWOTAnalysis
	if err := c.ShouldBindJSON(&a); err != nil {
		dto.HandleError(c, domain.NewValidationError("body", "must be a SWOT analysis object"))
		return
	}

	saved, err := h.service.Replace(c.Request.Context(), workspace(c), a)
	respond(c, http.StatusOK, saved, err)
}

// AddItem handles POST /api/v1/swot/:quadrant/items.
func (h *SWOTHandler) AddItem(c *gin.Context) {
	q, err := domain.ParseQuadrant(c.Param("quadrant"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.SWOTItemRequest
	if !bind(c, &req) {
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), workspace(c), q, req.Input())
	respond(c, http.StatusCreated, item, err)
}

// UpdateItem handles PUT /api/v1/swot/:quadrant/items/:id.
func (h *SWOTHandler) UpdateItem(c *gin.Context) {
	q, err := domain.ParseQuadrant(c.Param("quadrant"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.SWOTItemRequest
	if !bind(c, &req) {
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), workspace(c), q, c.Param("id"), req.Input())
	respond(c, http.StatusOK, item, err)
}

// DeleteItem handles DELETE /api/v1/swot/:quadrant/items/:id.
func (h *SWOTHandler) DeleteItem(c *gin.Context) {
	q, err := domain.ParseQuadrant(c.Param("quadrant"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	respondEmpty(c, h.service.DeleteItem(c.Request.Context(), workspace(c), q, c.Param("id")))
}

// GenerateStrategies handles POST /api/v1/swot/strategies.
func (h *SWOTHandler) GenerateStrategies(c *gin.Context) {
	strategies, err := h.service.GenerateStrategies(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, gin.H{"strategies": strategies, "count": len(strategies)}, err)
}

// Summary handles GET /api/v1/swot/summary.
func (h *SWOTHandler) Summary(c *gin.Context) {
	s, err := h.service.Summary(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, s, err)
}

// Export handles GET /api/v1/swot/export.
func (h *SWOTHandler) Export(c *gin.Context) {
	exp, err := h.service.Export(c.Request.Context(), workspace(c))
	respondExport(c, exp, err)
}

// Import handles POST /api/v1/swot/import with a previously exported file.
func (h *SWOTHandler) Import(c *gin.Context) {
	raw, err := readImport(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	a, err := h.service.Import(c.Request.Context(), workspace(c), raw)
	respond(c, http.StatusOK, a, err)
}
