package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Load reads a collection and decodes it into a slice of T.
// A collection that was never written, or holds an empty payload or null, yields an empty slice.
func Load[T any](ctx context.Context, s Store, c Collection) ([]T, error) {
	raw, err := s.Get(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c, err)
	}
	out := []T{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("load %s: %w: %v", c, ErrCorrupt, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Save encodes items as a JSON array and writes it to the collection. A nil slice is stored as [].
func Save[T any](ctx context.Context, s Store, c Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	if err := s.Put(ctx, c, raw); err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	return nil
}
