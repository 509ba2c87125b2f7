package cart

import (
	"context"
	"errors"
)

// Storage persists serialized cart state across sessions. Consumers define
// this interface, not the Redis implementation.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("cart not found in storage")
