package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/app"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// WorkspaceHandler serves whole-workspace operations: the overview,
// backup and restore, and the export archive.
type WorkspaceHandler struct {
	workspaces *app.WorkspaceService
	overview   *app.OverviewService
	exports    *app.ExportService
}

// NewWorkspaceHandler creates a workspace handler.
func NewWorkspaceHandler(workspaces *app.WorkspaceService, overview *app.OverviewService, exports *app.ExportService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaces: workspaces,
		overview:   overview,
		exports:    exports,
	}
}

// RegisterRoutes registers the /workspace routes.
func (h *WorkspaceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/workspace")
	g.GET("", h.Keys)
	g.DELETE("", h.Reset)
	g.GET("/overview", h.Overview)
	g.GET("/export", h.Export)
	g.POST("/import", h.Import)
	g.GET("/archive", h.Archive)
	g.GET("/archive/:filename", h.ArchivedFile)
}

// Keys handles GET /api/v1/workspace.
func (h *WorkspaceHandler) Keys(c *gin.Context) {
	ws := workspace(c)
	keys, err := h.workspaces.Keys(c.Request.Context(), ws)
	respond(c, http.StatusOK, gin.H{"workspace": ws, "keys": keys}, err)
}

// Overview handles GET /api/v1/workspace/overview.
func (h *WorkspaceHandler) Overview(c *gin.Context) {
	ov, err := h.overview.Get(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, ov, err)
}

// Export handles GET /api/v1/workspace/export.
func (h *WorkspaceHandler) Export(c *gin.Context) {
	exp, err := h.workspaces.Export(c.Request.Context(), workspace(c))
	respondExport(c, exp, err)
}

// Import handles POST /api/v1/workspace/import. The body is a bundle
// produced by Export, possibly from another workspace.
func (h *WorkspaceHandler) Import(c *gin.Context) {
	raw, err := readImport(c)
	if err != nil {
		respond(c, 0, nil, err)
		return
	}

	var b app.WorkspaceBundle
	if err := json.Unmarshal(raw, &b); err != nil {
		respond(c, 0, nil, domain.NewValidationError("body", "not a workspace export"))
		return
	}
	if len(b.State) == 0 {
		respond(c, 0, nil, domain.NewValidationError("state", "bundle holds no documents"))
		return
	}

	keys, err := h.workspaces.Import(c.Request.Context(), workspace(c), b)
	respond(c, http.StatusOK, gin.H{"imported": keys}, err)
}

// Reset handles DELETE /api/v1/workspace.
func (h *WorkspaceHandler) Reset(c *gin.Context) {
	respondEmpty(c, h.workspaces.Reset(c.Request.Context(), workspace(c)))
}

// Archive handles GET /api/v1/workspace/archive.
func (h *WorkspaceHandler) Archive(c *gin.Context) {
	objects, err := h.exports.Archived(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, gin.H{"exports": objects}, err)
}

// ArchivedFile handles GET /api/v1/workspace/archive/:filename.
func (h *WorkspaceHandler) ArchivedFile(c *gin.Context) {
	name := c.Param("filename")

	data, err := h.exports.ArchivedFile(c.Request.Context(), workspace(c), name)
	if err != nil {
		respond(c, 0, nil, err)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}
