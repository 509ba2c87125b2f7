package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Zombie-01/tire/internal/catalog"
	"github.com/Zombie-01/tire/internal/domain"
)

// CatalogService is the storefront-facing slice of the catalog.
type CatalogService interface {
	Search(ctx context.Context, criteria catalog.Criteria) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Brands(ctx context.Context) ([]domain.Brand, error)
	Banners(ctx context.Context) ([]domain.Banner, error)
}

type ProductHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewProductHandler(catalog CatalogService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

// ListProducts serves the storefront grid. All filters arrive as query
// parameters and combine with AND; omitted parameters match everything.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	products, err := h.catalog.Search(ctx, criteria)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "id")
	product, err := h.catalog.Product(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	brands, err := h.catalog.Brands(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load brands")
		return
	}

	respondJSON(w, http.StatusOK, brands)
}

func (h *ProductHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	banners, err := h.catalog.Banners(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load banners")
		return
	}

	respondJSON(w, http.StatusOK, banners)
}

func criteriaFromQuery(r *http.Request) (catalog.Criteria, error) {
	q := r.URL.Query()

	criteria := catalog.Criteria{
		BrandID: q.Get("brand"),
		Size:    q.Get("size"),
	}

	switch condition := q.Get("condition"); condition {
	case "":
	case string(domain.ConditionNew), string(domain.ConditionUsed):
		criteria.Condition = domain.Condition(condition)
	default:
		return catalog.Criteria{}, errors.New("condition must be 'new' or 'used'")
	}

	if raw := q.Get("min_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return catalog.Criteria{}, errors.New("min_price must be a non-negative integer")
		}
		criteria.PriceMin = v
	}
	if raw := q.Get("max_price"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return catalog.Criteria{}, errors.New("max_price must be a non-negative integer")
		}
		criteria.PriceMax = v
	}

	switch sort := catalog.SortKey(q.Get("sort")); sort {
	case "", catalog.SortPopularity, catalog.SortPriceLow, catalog.SortPriceHigh, catalog.SortName:
		criteria.Sort = sort
	default:
		return catalog.Criteria{}, errors.New("unknown sort key")
	}

	return criteria, nil
}
