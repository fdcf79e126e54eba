package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// CatalogHandler serves the grant, investor and tool directories and the
// workspace's saved items.
type CatalogHandler struct {
	service *app.CatalogService
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(service *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers the catalog and /saved routes.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	grants := rg.Group("/grants")
	grants.GET("", h.Grants)
	grants.GET("/stats", h.GrantStats)
	grants.GET("/:id", h.Grant)

	investors := rg.Group("/investors")
	investors.GET("", h.Investors)
	investors.GET("/stats", h.InvestorStats)
	investors.GET("/:id", h.Investor)

	tools := rg.Group("/tools")
	tools.GET("", h.Tools)
	tools.GET("/stats", h.ToolStats)

	saved := rg.Group("/saved/:kind")
	saved.GET("", h.Saved)
	saved.GET("/export", h.ExportSaved)
	saved.POST("/:id", h.ToggleSaved)
}

// Grants handles GET /api/v1/grants.
func (h *CatalogHandler) Grants(c *gin.Context) {
	var q dto.GrantQuery
	if !bindQuery(c, &q) {
		return
	}

	grants, err := h.service.Grants(c.Request.Context(), workspace(c), q.Filter())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	page, err := dto.Paginate(grants, q.PaginationRequest, func(g domain.Grant) string { return g.ID })
	respond(c, http.StatusOK, page, err)
}

// Grant handles GET /api/v1/grants/:id.
func (h *CatalogHandler) Grant(c *gin.Context) {
	g, err := h.service.Grant(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, g, err)
}

// GrantStats handles GET /api/v1/grants/stats.
func (h *CatalogHandler) GrantStats(c *gin.Context) {
	s, err := h.service.GrantStats(c.Request.Context())
	respond(c, http.StatusOK, s, err)
}

// Investors handles GET /api/v1/investors.
func (h *CatalogHandler) Investors(c *gin.Context) {
	var q dto.InvestorQuery
	if !bindQuery(c, &q) {
		return
	}

	investors, err := h.service.Investors(c.Request.Context(), workspace(c), q.Filter())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	page, err := dto.Paginate(investors, q.PaginationRequest, func(i domain.Investor) string { return i.ID })
	respond(c, http.StatusOK, page, err)
}

// Investor handles GET /api/v1/investors/:id.
func (h *CatalogHandler) Investor(c *gin.Context) {
	inv, err := h.service.Investor(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, inv, err)
}

// InvestorStats handles GET /api/v1/investors/stats.
func (h *CatalogHandler) InvestorStats(c *gin.Context) {
	s, err := h.service.InvestorStats(c.Request.Context())
	respond(c, http.StatusOK, s, err)
}

// Tools handles GET /api/v1/tools.
func (h *CatalogHandler) Tools(c *gin.Context) {
	var q dto.ToolQuery
	if !bindQuery(c, &q) {
		return
	}

	tools, err := h.service.Tools(c.Request.Context(), workspace(c), q.Filter())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	page, err := dto.Paginate(tools, q.PaginationRequest, func(t domain.Tool) string { return t.ID })
	respond(c, http.StatusOK, page, err)
}

// ToolStats handles GET /api/v1/tools/stats.
func (h *CatalogHandler) ToolStats(c *gin.Context) {
	s, err := h.service.ToolStats(c.Request.Context())
	respond(c, http.StatusOK, s, err)
}

// Saved handles GET /api/v1/saved/:kind.
func (h *CatalogHandler) Saved(c *gin.Context) {
	kind, err := app.ParseSavedKind(c.Param("kind"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	ids, err := h.service.Saved(c.Request.Context(), workspace(c), kind)
	respond(c, http.StatusOK, gin.H{"kind": kind, "ids": ids}, err)
}

// ToggleSaved handles POST /api/v1/saved/:kind/:id. Saving an already saved
// id removes it.
func (h *CatalogHandler) ToggleSaved(c *gin.Context) {
	kind, err := app.ParseSavedKind(c.Param("kind"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	res, err := h.service.ToggleSaved(c.Request.Context(), workspace(c), kind, c.Param("id"))
	respond(c, http.StatusOK, res, err)
}

// ExportSaved handles GET /api/v1/saved/:kind/export.
func (h *CatalogHandler) ExportSaved(c *gin.Context) {
	kind, err := app.ParseSavedKind(c.Param("kind"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	exp, err := h.service.ExportSaved(c.Request.Context(), workspace(c), kind)
	respondExport(c, exp, err)
}
