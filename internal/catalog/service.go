package catalog

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Zombie-01/tire/internal/cache"
	"github.com/Zombie-01/tire/internal/domain"
)

// Service serves storefront reads from a cached product list and funnels
// back-office writes through cache invalidation.
type Service struct {
	repo  Repository
	cache cache.CatalogCache
	log   *logrus.Logger
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache cache.CatalogCache, log *logrus.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Products returns the full product list, read through the cache.
func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	// Use singleflight so concurrent cache misses hit the repository once.
	v, err, _ := s.sfg.Do(productsFlightKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}

		if err != cache.ErrCacheMiss {
			s.log.WithError(err).Warn("catalog cache get failed") // log cache error but continue
		}

		products, errList := s.repo.ListProducts(ctx)
		if errList != nil {
			return nil, errList
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), products); errSet != nil {
				s.log.WithError(errSet).Warn("catalog cache set failed")
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

const productsFlightKey = "products"

// Search applies the filter/sort pipeline to the active catalog.
func (s *Service) Search(ctx context.Context, criteria Criteria) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return Apply(active, criteria), nil
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// Brands returns active brands for the storefront filter bar.
func (s *Service) Brands(ctx context.Context) ([]domain.Brand, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]domain.Brand, 0, len(brands))
	for _, b := range brands {
		if b.IsActive {
			active = append(active, b)
		}
	}
	return active, nil
}

// Banners returns active banners ordered for the home carousel.
func (s *Service) Banners(ctx context.Context) ([]domain.Banner, error) {
	banners, err := s.repo.ListBanners(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]domain.Banner, 0, len(banners))
	for _, b := range banners {
		if b.IsActive {
			active = append(active, b)
		}
	}
	return active, nil
}

func (s *Service) CreateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Brand, banner, user and setting writes go straight through; only the
// product list is cached.

func (s *Service) CreateBrand(ctx context.Context, b *domain.Brand) error {
	return s.repo.CreateBrand(ctx, b)
}

func (s *Service) UpdateBrand(ctx context.Context, b *domain.Brand) error {
	return s.repo.UpdateBrand(ctx, b)
}

func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	return s.repo.DeleteBrand(ctx, id)
}

func (s *Service) CreateBanner(ctx context.Context, b *domain.Banner) error {
	return s.repo.CreateBanner(ctx, b)
}

func (s *Service) UpdateBanner(ctx context.Context, b *domain.Banner) error {
	return s.repo.UpdateBanner(ctx, b)
}

func (s *Service) DeleteBanner(ctx context.Context, id string) error {
	return s.repo.DeleteBanner(ctx, id)
}

func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) User(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, u *domain.User) error {
	return s.repo.CreateUser(ctx, u)
}

func (s *Service) UpdateUser(ctx context.Context, u *domain.User) error {
	return s.repo.UpdateUser(ctx, u)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *Service) Settings(ctx context.Context) ([]domain.Setting, error) {
	return s.repo.ListSettings(ctx)
}

func (s *Service) UpdateSetting(ctx context.Context, setting *domain.Setting) error {
	return s.repo.UpdateSetting(ctx, setting)
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WithError(err).Warn("catalog cache invalidate failed")
	}
}
