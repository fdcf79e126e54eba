package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/app"
)

// NameHandler serves the business name generator.
type NameHandler struct {
	service *app.NameService
}

// NewNameHandler creates a name generator handler.
func NewNameHandler(service *app.NameService) *NameHandler {
	return &NameHandler{service: service}
}

// RegisterRoutes registers the /names routes.
func (h *NameHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/names", h.Generate)
}

// Generate handles POST /api/v1/names. Suggestions are simulated and say so.
func (h *NameHandler) Generate(c *gin.Context) {
	var req dto.NameRequest
	if !bind(c, &req) {
		return
	}

	names, err := h.service.Generate(c.Request.Context(), req.Request())
	respond(c, http.StatusOK, gin.H{"names": names, "simulated": true}, err)
}
