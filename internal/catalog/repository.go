package catalog

import (
	"context"
	"errors"

	"github.com/Zombie-01/tire/internal/domain"
)

var ErrNotFound = errors.New("catalog record not found")

// Repository defines the catalog data operations the storefront and the
// back-office consume. Consumers define this interface, not the MongoDB
// implementation.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListBrands(ctx context.Context) ([]domain.Brand, error)
	CreateBrand(ctx context.Context, b *domain.Brand) error
	UpdateBrand(ctx context.Context, b *domain.Brand) error
	DeleteBrand(ctx context.Context, id string) error

	ListBanners(ctx context.Context) ([]domain.Banner, error)
	CreateBanner(ctx context.Context, b *domain.Banner) error
	UpdateBanner(ctx context.Context, b *domain.Banner) error
	DeleteBanner(ctx context.Context, id string) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	UpdateUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	ListSettings(ctx context.Context) ([]domain.Setting, error)
	UpdateSetting(ctx context.Context, s *domain.Setting) error
}
