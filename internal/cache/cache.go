package cache

import (
	"context"
	"errors"

	"github.com/Zombie-01/tire/internal/domain"
)

// CatalogCache holds the full product list between catalog reads. Consumers
// define this interface, not the Redis implementation.
type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Invalidate(ctx context.Context) error
}

var ErrCacheMiss = errors.New("cache miss")
