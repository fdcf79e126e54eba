package handlers

import (
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/dto"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/http/middleware"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// maxImportSize caps uploaded export files.
const maxImportSize = 1 << 20

// RouteRegistrar is implemented by every API handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func workspace(c *gin.Context) string {
	return middleware.WorkspaceFrom(c)
}

// sendExport streams a rendered download as an attachment.
func sendExport(c *gin.Context, exp domain.Export) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.Filename}))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, exp.Format.ContentType(), exp.Data)
}

// readImport returns the raw body of an import request.
func readImport(c *gin.Context) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize+1))
	if err != nil {
		return nil, domain.NewValidationError("body", "could not be read")
	}
	if len(raw) > maxImportSize {
		return nil, domain.NewValidationError("body", "import file is larger than 1 MiB")
	}
	if len(raw) == 0 {
		return nil, domain.NewValidationError("body", "import file is empty")
	}

	return raw, nil
}

// bind decodes and validates a JSON body, writing the error response on failure.
func bind(c *gin.Context, v any) bool {
	if err := dto.BindAndValidate(c, v); err != nil {
		dto.HandleError(c, err)
		return false
	}

	return true
}

// bindQuery decodes and validates the query string.
func bindQuery(c *gin.Context, v any) bool {
	if err := dto.BindQueryAndValidate(c, v); err != nil {
		dto.HandleError(c, err)
		return false
	}

	return true
}

// respond writes v as JSON with status, or the error envelope for err.
func respond(c *gin.Context, status int, v any, err error) {
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(status, v)
}

// respondEmpty writes 204 or the error envelope for err.
func respondEmpty(c *gin.Context, err error) {
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondExport sends exp or the error envelope for err.
func respondExport(c *gin.Context, exp domain.Export, err error) {
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	sendExport(c, exp)
}
