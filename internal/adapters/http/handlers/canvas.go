package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// CanvasHandler serves the Value Proposition Canvas.
type CanvasHandler struct {
	service *app.CanvasService
}

// NewCanvasHandler creates a canvas handler.
func NewCanvasHandler(service *app.CanvasService) *CanvasHandler {
	return &CanvasHandler{service: service}
}

// RegisterRoutes registers the /canvas routes.
func (h *CanvasHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/canvas")
	g.GET("", h.Get)
	g.PUT("", h.Replace)
	g.GET("/fit", h.AnalyzeFit)
	g.GET("/export", h.Export)
	g.POST("/import", h.Import)
	g.POST("/:section/items", h.AddItem)
	g.DELETE("/:section/items/:id", h.DeleteItem)
}

// Get handles GET /api/v1/canvas.
func (h *CanvasHandler) Get(c *gin.Context) {
	cv, err := h.service.Get(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, cv, err)
}

// Replace handles PUT /api/v1/canvas.
func (h *CanvasHandler) Replace(c *gin.Context) {
	var cv domain.Canvas
	if err := c.ShouldBindJSON(&cv); err != nil {
		dto.HandleError(c, domain.NewValidationError("body", "must be a canvas object"))
		return
	}

	saved, err := h.service.Replace(c.Request.Context(), workspace(c), cv)
	respond(c, http.StatusOK, saved, err)
}

// AddItem handles POST /api/v1/canvas/:section/items.
func (h *CanvasHandler) AddItem(c *gin.Context) {
	section, err := domain.ParseCanvasSection(c.Param("section"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.CanvasItemRequest
	if !bind(c, &req) {
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), workspace(c), section, req.Input())
	respond(c, http.StatusCreated, item, err)
}

// DeleteItem handles DELETE /api/v1/canvas/:section/items/:id.
func (h *CanvasHandler) DeleteItem(c *gin.Context) {
	section, err := domain.ParseCanvasSection(c.Param("section"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	respondEmpty(c, h.service.DeleteItem(c.Request.Context(), workspace(c), section, c.Param("id")))
}

// AnalyzeFit handles GET /api/v1/canvas/fit.
func (h *CanvasHandler) AnalyzeFit(c *gin.Context) {
	fa, err := h.service.AnalyzeFit(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, fa, err)
}

// Export handles GET /api/v1/canvas/export.
func (h *CanvasHandler) Export(c *gin.Context) {
	exp, err := h.service.Export(c.Request.Context(), workspace(c))
	respondExport(c, exp, err)
}

// Import handles POST /api/v1/canvas/import.
func (h *CanvasHandler) Import(c *gin.Context) {
	raw, err := readImport(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	cv, err := h.service.Import(c.Request.Context(), workspace(c), raw)
	respond(c, http.StatusOK, cv, err)
}
