package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/clients"
	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

// maxErrorBody bounds how much of an error response is decoded.
const maxErrorBody = 64 << 10

// upstreamError is the error object an upstream puts in a response body,
// either on its own or under "error" next to a partial payload.
type upstreamError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// errorBody accepts {"error":{...}} as well as a bare {"code","message"}.
type errorBody struct {
	Error *upstreamError `json:"error"`
	upstreamError
}

func readUpstreamError(r io.Reader) *upstreamError {
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&body); err != nil {
		return nil
	}

	if body.Error != nil && (body.Error.Code != "" || body.Error.Message != "") {
		return body.Error
	}
	if body.Code != "" || body.Message != "" {
		return &body.upstreamError
	}

	return nil
}

// failure describes a call that went wrong, for translation into a domain
// error.
type failure struct {
	service   string
	operation string
}

// transport maps an error returned by the client itself.
func (f failure) transport(err error) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(f.service, "circuit open, "+f.operation+" skipped")
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(f.service, f.operation+" failed after retries")
	default:
		return domain.NewUnavailableError(f.service, fmt.Sprintf("%s: %v", f.operation, err))
	}
}

// status maps a non-2xx response. The body is read but not closed.
func (f failure) status(resp *http.Response) error {
	ue := readUpstreamError(resp.Body)

	message := http.StatusText(resp.StatusCode)
	if ue != nil && ue.Message != "" {
		message = ue.Message
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.NewNotFoundError(f.service, "")
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewForbiddenError(f.operation, message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		field := ""
		if ue != nil {
			field = ue.Field
		}

		return domain.NewValidationError(field, message)
	case http.StatusConflict:
		return domain.NewConflictError(f.service, message)
	default:
		return domain.NewUnavailableError(f.service, fmt.Sprintf("%s: status %d: %s", f.operation, resp.StatusCode, message))
	}
}

// code maps an error object carried by an otherwise successful response.
func (f failure) code(ue *upstreamError) error {
	switch ue.Code {
	case "NOT_FOUND":
		return domain.NewNotFoundError(f.service, "")
	case "UNAUTHORIZED", "FORBIDDEN":
		return domain.NewForbiddenError(f.operation, ue.Message)
	case "VALIDATION_ERROR":
		return domain.NewValidationError(ue.Field, ue.Message)
	default:
		return domain.NewUnavailableError(f.service, ue.Code+": "+ue.Message)
	}
}
