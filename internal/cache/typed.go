package cache

import (
	"context"
	"fmt"
)

// Get is the typed wrapper around Store.Get. The zero value of T is returned
// for gated-off entries and errors.
func Get[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error), opts Options) (T, error) {
	var zero T

	v, err := s.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, opts)
	if err != nil || v == nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %q holds %T, not %T", key, v, zero)
	}
	return t, nil
}
