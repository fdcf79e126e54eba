package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"slices"
)

// Page size bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned for a cursor this API did not issue or one
// naming an item that is no longer listed.
var ErrInvalidCursor = errors.New("invalid cursor")

// PaginationRequest is the cursor and page size of a listing request.
type PaginationRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"  validate:"omitempty,gte=1,lte=100"`
}

// PageSize applies the default and the upper bound to Limit.
func (p PaginationRequest) PageSize() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// PaginatedResponse is one page of a listing.
type PaginatedResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

// cursor is the decoded form of an opaque page cursor.
type cursor struct {
	After string `json:"after"`
}

func encodeCursor(after string) string {
	b, _ := json.Marshal(cursor{After: after})
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(s string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", ErrInvalidCursor
	}

	var c cursor
	if err := json.Unmarshal(b, &c); err != nil || c.After == "" {
		return "", ErrInvalidCursor
	}

	return c.After, nil
}

// Paginate returns the page of items after the cursor. items must already be
// in their listing order; the cursor records the id of the last item served.
func Paginate[T any](items []T, req PaginationRequest, id func(T) string) (*PaginatedResponse[T], error) {
	start := 0

	if req.Cursor != "" {
		after, err := decodeCursor(req.Cursor)
		if err != nil {
			return nil, err
		}

		idx := slices.IndexFunc(items, func(it T) bool { return id(it) == after })
		if idx < 0 {
			return nil, ErrInvalidCursor
		}
		start = idx + 1
	}

	end := min(len(items), start+req.PageSize())
	page := &PaginatedResponse[T]{
		Items:   append([]T{}, items[start:end]...),
		HasMore: end < len(items),
	}
	if page.HasMore {
		page.NextCursor = encodeCursor(id(items[end-1]))
	}

	return page, nil
}
