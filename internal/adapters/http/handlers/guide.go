package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
)

// GuideHandler serves the guide reader.
type GuideHandler struct {
	service *app.GuideService
}

// NewGuideHandler creates a guide handler.
func NewGuideHandler(service *app.GuideService) *GuideHandler {
	return &GuideHandler{service: service}
}

// RegisterRoutes registers the /guides routes.
func (h *GuideHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/guides")
	g.GET("", h.List)
	g.GET("/progress", h.Progress)
	g.GET("/:id", h.Get)
	g.GET("/:id/text", h.Text)
	g.GET("/:id/certificate", h.Certificate)
	g.POST("/:id/chapters/:chapter/complete", h.CompleteChapter)
}

// List handles GET /api/v1/guides.
func (h *GuideHandler) List(c *gin.Context) {
	guides, err := h.service.List(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, gin.H{"guides": guides}, err)
}

// Get handles GET /api/v1/guides/:id.
func (h *GuideHandler) Get(c *gin.Context) {
	g, err := h.service.Get(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, g, err)
}

// CompleteChapter handles POST /api/v1/guides/:id/chapters/:chapter/complete.
func (h *GuideHandler) CompleteChapter(c *gin.Context) {
	res, err := h.service.CompleteChapter(c.Request.Context(), workspace(c), c.Param("id"), c.Param("chapter"))
	respond(c, http.StatusOK, res, err)
}

// Progress handles GET /api/v1/guides/progress.
func (h *GuideHandler) Progress(c *gin.Context) {
	p, err := h.service.Progress(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, p, err)
}

// Certificate handles GET /api/v1/guides/:id/certificate?format=txt|pdf&name=.
func (h *GuideHandler) Certificate(c *gin.Context) {
	var q dto.CertificateQuery
	if !bindQuery(c, &q) {
		return
	}

	exp, err := h.service.Certificate(c.Request.Context(), workspace(c), c.Param("id"), q.Name, q.ExportFormat())
	respondExport(c, exp, err)
}

// Text handles GET /api/v1/guides/:id/text.
func (h *GuideHandler) Text(c *gin.Context) {
	exp, err := h.service.Text(c.Request.Context(), workspace(c), c.Param("id"))
	respondExport(c, exp, err)
}
