package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/logging"
)

const (
	// ContextKeyTraceID lets middleware pin the trace id reported in error bodies.
	ContextKeyTraceID = "trace_id"

	requestIDHeader = "X-Request-ID"

	msgUnavailable = "a dependency is temporarily unavailable, try again later"
	msgInternal    = "an internal error occurred"
)

// GetTraceID returns the id clients should quote when reporting an error:
// an explicit trace id on the gin context, the OpenTelemetry trace id, or
// the request id header, in that order.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return c.GetHeader(requestIDHeader)
}

// MapDomainError returns the status and envelope for err. Errors the
// domain does not know about become a 500 whose message reveals nothing.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	if fields := FieldErrors(err); fields != nil {
		resp := NewErrorResponse(ErrorCodeValidation, "request validation failed")
		resp.Error.Details = fields

		return http.StatusBadRequest, resp
	}

	var ve *domain.ValidationError

	switch {
	case errors.Is(err, ErrBinding), errors.Is(err, ErrInvalidCursor):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeBadRequest, err.Error())
	case errors.As(err, &ve):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())
		if ve.Field != "" {
			resp.Error.Details = map[string]string{ve.Field: ve.Message}
		}

		return http.StatusBadRequest, resp
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())
	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())
	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(ErrorCodeForbidden, err.Error())
	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, msgUnavailable)
	case domain.IsValidation(err):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeValidation, err.Error())
	}

	return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, msgInternal)
}

// HandleError writes the envelope for err. 5xx causes are logged because
// the client never sees them.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "request failed",
			slog.Int("status", status),
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.JSON(status, resp)
}

// AbortWithError stops the chain and writes the envelope for err.
func AbortWithError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	c.AbortWithStatusJSON(status, resp.WithTraceID(GetTraceID(c)))
}

// RespondWithErrorCode writes an envelope for a failure that has no domain
// error behind it, such as an unknown route.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(StatusForCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
