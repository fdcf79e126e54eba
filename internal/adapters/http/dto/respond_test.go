package dto

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedField  string
	}{
		{
			name:           "nil error returns 200",
			err:            nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found returns 404",
			err:            domain.NewNotFoundError("grant", "g-1"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeNotFound,
		},
		{
			name:           "conflict returns 409",
			err:            domain.NewConflictError("expert", "email already registered"),
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrorCodeConflict,
		},
		{
			name:           "malformed state returns 409",
			err:            domain.NewMalformedStateError("swot", errors.New("bad json")),
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrorCodeConflict,
		},
		{
			name:           "domain validation returns 400 with field",
			err:            domain.NewValidationError("text", "must not be empty"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidation,
			expectedField:  "text",
		},
		{
			name:           "validation without field returns 400",
			err:            domain.NewValidationError("", "invalid input"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidation,
		},
		{
			name:           "forbidden returns 403",
			err:            domain.NewForbiddenError("update", "campaign already sent"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   ErrorCodeForbidden,
		},
		{
			name:           "unavailable returns 503",
			err:            domain.NewUnavailableError("regulatory-feed", "connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrorCodeUnavailable,
		},
		{
			name:           "invalid cursor returns 400",
			err:            fmt.Errorf("listing grants: %w", ErrInvalidCursor),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeBadRequest,
		},
		{
			name:           "unknown error returns 500",
			err:            errors.New("disk on fire"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.expectedStatus, status)

			if tt.err == nil {
				assert.Nil(t, resp)
				return
			}

			require.NotNil(t, resp)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)

			if tt.expectedField != "" {
				require.NotNil(t, resp.Error.Details)
				assert.Contains(t, resp.Error.Details, tt.expectedField)
			}
		})
	}
}

func TestMapDomainError_HidesInternalMessage(t *testing.T) {
	_, resp := MapDomainError(errors.New("pq: password authentication failed"))

	require.NotNil(t, resp)
	assert.NotContains(t, resp.Error.Message, "password")
}

func TestAbortWithError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	AbortWithError(c, domain.NewValidationError("workspace", "invalid characters"))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "workspace")
}

func TestRespondWithErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(ContextKeyTraceID, "trace-1")

	RespondWithErrorCode(c, ErrorCodeNotFound, "no such route")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "trace-1")
}

type pageItem struct {
	ID string
}

func pageItems(n int) []pageItem {
	items := make([]pageItem, n)
	for i := range items {
		items[i] = pageItem{ID: fmt.Sprintf("item-%02d", i)}
	}

	return items
}

func TestPaginate(t *testing.T) {
	id := func(p pageItem) string { return p.ID }

	t.Run("first page", func(t *testing.T) {
		page, err := Paginate(pageItems(5), PaginationRequest{Limit: 2}, id)

		require.NoError(t, err)
		assert.Equal(t, []pageItem{{ID: "item-00"}, {ID: "item-01"}}, page.Items)
		assert.True(t, page.HasMore)
		assert.NotEmpty(t, page.NextCursor)
	})

	t.Run("walks every page", func(t *testing.T) {
		items := pageItems(5)
		req := PaginationRequest{Limit: 2}

		var seen []pageItem
		for range 10 {
			page, err := Paginate(items, req, id)
			require.NoError(t, err)
			seen = append(seen, page.Items...)
			if !page.HasMore {
				break
			}
			req.Cursor = page.NextCursor
		}

		assert.Equal(t, items, seen)
	})

	t.Run("last page has no cursor", func(t *testing.T) {
		page, err := Paginate(pageItems(2), PaginationRequest{Limit: 5}, id)

		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.False(t, page.HasMore)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("empty input", func(t *testing.T) {
		page, err := Paginate([]pageItem{}, PaginationRequest{}, id)

		require.NoError(t, err)
		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
	})

	t.Run("cursor for unknown id", func(t *testing.T) {
		req := PaginationRequest{Cursor: encodeCursor("gone")}

		_, err := Paginate(pageItems(3), req, id)

		assert.ErrorIs(t, err, ErrInvalidCursor)
	})

	t.Run("garbage cursor", func(t *testing.T) {
		_, err := Paginate(pageItems(3), PaginationRequest{Cursor: "!!"}, id)

		assert.ErrorIs(t, err, ErrInvalidCursor)
	})
}
