package kafka

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONHandler decodes a message value into T before invoking handle.
// A payload that does not decode is reported as a handler error.
func JSONHandler[T any](handle func(ctx context.Context, key []byte, ev *T) error) Handler {
	return func(ctx context.Context, key, value []byte) error {
		ev := new(T)
		if err := json.Unmarshal(value, ev); err != nil {
			return fmt.Errorf("decode message: %w", err)
		}
		return handle(ctx, key, ev)
	}
}
