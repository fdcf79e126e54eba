package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// decode reads one JSON document of type T from r.
func decode[T any](r io.Reader) (T, error) {
	var v T
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return v, fmt.Errorf("decoding upstream payload: %w", err)
	}

	return v, nil
}

// translateAll converts every item it can. Items that fail are left out and
// reported together in the returned error.
func translateAll[E, D any](items []E, translate func(*E) (D, error)) ([]D, error) {
	out := make([]D, 0, len(items))

	var errs []error
	for i := range items {
		d, err := translate(&items[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		out = append(out, d)
	}

	return out, errors.Join(errs...)
}
