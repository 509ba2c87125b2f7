package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zombie-01/tire/internal/cache"
	"github.com/Zombie-01/tire/internal/domain"
)

type mockRepo struct {
	Repository
	m        sync.Mutex
	products []domain.Product
	listErr  error
	calls    int
}

func (r *mockRepo) ListProducts(context.Context) ([]domain.Product, error) {
	r.m.Lock()
	defer r.m.Unlock()
	r.calls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.products, nil
}

func (r *mockRepo) listCalls() int {
	r.m.Lock()
	defer r.m.Unlock()
	return r.calls
}

type mockCache struct {
	m           sync.Mutex
	products    []domain.Product
	invalidated int
}

func (c *mockCache) Get(context.Context) ([]domain.Product, error) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.products == nil {
		return nil, cache.ErrCacheMiss
	}
	return c.products, nil
}

func (c *mockCache) Set(_ context.Context, products []domain.Product) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.products = products
	return nil
}

func (c *mockCache) Invalidate(context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.products = nil
	c.invalidated++
	return nil
}

func (c *mockCache) cached() []domain.Product {
	c.m.Lock()
	defer c.m.Unlock()
	return c.products
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestProducts_CacheHitSkipsRepository(t *testing.T) {
	repo := &mockRepo{}
	c := &mockCache{products: []domain.Product{{ID: "1"}}}
	sut := NewService(repo, c, testLogger())

	products, err := sut.Products(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 0, repo.listCalls())
}

func TestProducts_CacheMissFallsBackAndWarmsCache(t *testing.T) {
	repo := &mockRepo{products: []domain.Product{{ID: "1"}, {ID: "2"}}}
	c := &mockCache{}
	sut := NewService(repo, c, testLogger())

	products, err := sut.Products(context.Background())

	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, repo.listCalls())

	// Cache warm-up is asynchronous.
	require.Eventually(t, func() bool {
		return len(c.cached()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestProducts_RepositoryErrorPropagates(t *testing.T) {
	repo := &mockRepo{listErr: errors.New("mongo down")}
	sut := NewService(repo, &mockCache{}, testLogger())

	_, err := sut.Products(context.Background())
	assert.Error(t, err)
}

func TestSearch_OnlyActiveProducts(t *testing.T) {
	repo := &mockRepo{products: []domain.Product{
		{ID: "1", Price: 100, IsActive: true},
		{ID: "2", Price: 200, IsActive: false},
	}}
	sut := NewService(repo, &mockCache{}, testLogger())

	result, err := sut.Search(context.Background(), Criteria{})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "1", result[0].ID)
}

func TestMutations_InvalidateCache(t *testing.T) {
	repo := &stubWriteRepo{}
	c := &mockCache{products: []domain.Product{{ID: "1"}}}
	sut := NewService(repo, c, testLogger())
	ctx := context.Background()

	require.NoError(t, sut.CreateProduct(ctx, &domain.Product{ID: "2"}))
	require.NoError(t, sut.UpdateProduct(ctx, &domain.Product{ID: "2"}))
	require.NoError(t, sut.DeleteProduct(ctx, "2"))

	assert.Equal(t, 3, c.invalidated)
}

type stubWriteRepo struct {
	Repository
}

func (r *stubWriteRepo) CreateProduct(context.Context, *domain.Product) error { return nil }
func (r *stubWriteRepo) UpdateProduct(context.Context, *domain.Product) error { return nil }
func (r *stubWriteRepo) DeleteProduct(context.Context, string) error          { return nil }
