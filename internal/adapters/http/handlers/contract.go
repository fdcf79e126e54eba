package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
)

// ContractHandler serves contract templates and saved drafts.
type ContractHandler struct {
	service *app.ContractService
}

// NewContractHandler creates a contract handler.
func NewContractHandler(service *app.ContractService) *ContractHandler {
	return &ContractHandler{service: service}
}

// RegisterRoutes registers the /contracts routes.
func (h *ContractHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/contracts")
	g.GET("/templates", h.Templates)
	g.GET("/templates/:id", h.Template)
	g.POST("/templates/:id/preview", h.Preview)
	g.GET("/drafts", h.Drafts)
	g.POST("/drafts", h.SaveDraft)
	g.GET("/drafts/:id", h.Draft)
	g.DELETE("/drafts/:id", h.DeleteDraft)
	g.GET("/drafts/:id/export", h.ExportDraft)
}

// Templates handles GET /api/v1/contracts/templates.
func (h *ContractHandler) Templates(c *gin.Context) {
	templates, err := h.service.Templates(c.Request.Context())
	respond(c, http.StatusOK, gin.H{"templates": templates}, err)
}

// Template handles GET /api/v1/contracts/templates/:id.
func (h *ContractHandler) Template(c *gin.Context) {
	tpl, err := h.service.Template(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, tpl, err)
}

// Preview handles POST /api/v1/contracts/templates/:id/preview.
func (h *ContractHandler) Preview(c *gin.Context) {
	var req dto.PreviewRequest
	if !bind(c, &req) {
		return
	}

	content, err := h.service.Preview(c.Request.Context(), c.Param("id"), req.Values)
	respond(c, http.StatusOK, gin.H{"content": content}, err)
}

// Drafts handles GET /api/v1/contracts/drafts.
func (h *ContractHandler) Drafts(c *gin.Context) {
	drafts, err := h.service.Drafts(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, gin.H{"drafts": drafts}, err)
}

// Draft handles GET /api/v1/contracts/drafts/:id.
func (h *ContractHandler) Draft(c *gin.Context) {
	d, err := h.service.Draft(c.Request.Context(), workspace(c), c.Param("id"))
	respond(c, http.StatusOK, d, err)
}

// SaveDraft handles POST /api/v1/contracts/drafts.
func (h *ContractHandler) SaveDraft(c *gin.Context) {
	var req dto.DraftRequest
	if !bind(c, &req) {
		return
	}

	d, err := h.service.SaveDraft(c.Request.Context(), workspace(c), req.TemplateID, req.Title, req.Values)
	respond(c, http.StatusCreated, d, err)
}

// DeleteDraft handles DELETE /api/v1/contracts/drafts/:id.
func (h *ContractHandler) DeleteDraft(c *gin.Context) {
	respondEmpty(c, h.service.DeleteDraft(c.Request.Context(), workspace(c), c.Param("id")))
}

// ExportDraft handles GET /api/v1/contracts/drafts/:id/export?format=txt|pdf.
func (h *ContractHandler) ExportDraft(c *gin.Context) {
	var q dto.FormatQuery
	if !bindQuery(c, &q) {
		return
	}

	exp, err := h.service.ExportDraft(c.Request.Context(), workspace(c), c.Param("id"), q.ExportFormat())
	respondExport(c, exp, err)
}
