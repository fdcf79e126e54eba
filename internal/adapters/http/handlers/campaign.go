package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
)

// CampaignHandler serves the email campaign simulator.
type CampaignHandler struct {
	service *app.CampaignService
}

// NewCampaignHandler creates a campaign handler.
func NewCampaignHandler(service *app.CampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

// RegisterRoutes registers the /campaigns routes.
func (h *CampaignHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/campaigns")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/stats", h.Stats)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/simulate", h.Simulate)
}

// List handles GET /api/v1/campaigns.
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.service.List(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, gin.H{"campaigns": campaigns}, err)
}

// Get handles GET /api/v1/campaigns/:id.
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.service.Get(c.Request.Context(), workspace(c), c.Param("id"))
	respond(c, http.StatusOK, campaign, err)
}

// Create handles POST /api/v1/campaigns.
func (h *CampaignHandler) Create(c *gin.Context) {
	var req dto.CampaignRequest
	if !bind(c, &req) {
		return
	}

	campaign, err := h.service.Create(c.Request.Context(), workspace(c), req.Input())
	respond(c, http.StatusCreated, campaign, err)
}

// Update handles PUT /api/v1/campaigns/:id. Sent campaigns cannot change.
func (h *CampaignHandler) Update(c *gin.Context) {
	var req dto.CampaignRequest
	if !bind(c, &req) {
		return
	}

	campaign, err := h.service.Update(c.Request.Context(), workspace(c), c.Param("id"), req.Input())
	respond(c, http.StatusOK, campaign, err)
}

// Delete handles DELETE /api/v1/campaigns/:id.
func (h *CampaignHandler) Delete(c *gin.Context) {
	respondEmpty(c, h.service.Delete(c.Request.Context(), workspace(c), c.Param("id")))
}

// Simulate handles POST /api/v1/campaigns/:id/simulate.
func (h *CampaignHandler) Simulate(c *gin.Context) {
	campaign, err := h.service.Simulate(c.Request.Context(), workspace(c), c.Param("id"))
	respond(c, http.StatusOK, campaign, err)
}

// Stats handles GET /api/v1/campaigns/stats.
func (h *CampaignHandler) Stats(c *gin.Context) {
	s, err := h.service.Stats(c.Request.Context(), workspace(c))
	respond(c, http.StatusOK, s, err)
}
