package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Zombie-01/tire/internal/catalog"
	"github.com/Zombie-01/tire/internal/domain"
	"github.com/Zombie-01/tire/internal/orders"
)

// BackOfficeService is the admin-facing slice of the catalog.
type BackOfficeService interface {
	Products(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	CreateBrand(ctx context.Context, b *domain.Brand) error
	UpdateBrand(ctx context.Context, b *domain.Brand) error
	DeleteBrand(ctx context.Context, id string) error

	CreateBanner(ctx context.Context, b *domain.Banner) error
	UpdateBanner(ctx context.Context, b *domain.Banner) error
	DeleteBanner(ctx context.Context, id string) error

	Users(ctx context.Context) ([]domain.User, error)
	User(ctx context.Context, id string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	UpdateUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	Settings(ctx context.Context) ([]domain.Setting, error)
	UpdateSetting(ctx context.Context, s *domain.Setting) error
}

// OrderStatusUpdater advances an order through fulfillment.
type OrderStatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type AdminHandler struct {
	catalog BackOfficeService
	orders  OrderStatusUpdater
	timeout time.Duration
}

func NewAdminHandler(catalog BackOfficeService, orders OrderStatusUpdater, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		catalog: catalog,
		orders:  orders,
		timeout: timeout,
	}
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// Admins see inactive products too.
	products, err := h.catalog.Products(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if p.Name == "" || p.Price <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "name and a positive price are required")
		return
	}

	if err := h.catalog.CreateProduct(ctx, &p); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	p.ID = chi.URLParam(r, "id")

	if err := h.catalog.UpdateProduct(ctx, &p); err != nil {
		h.respondCatalogError(w, err, "failed to update product")
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.DeleteProduct(ctx, chi.URLParam(r, "id")); err != nil {
		h.respondCatalogError(w, err, "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var b domain.Brand
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if b.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	if err := h.catalog.CreateBrand(ctx, &b); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create brand")
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (h *AdminHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var b domain.Brand
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	b.ID = chi.URLParam(r, "id")

	if err := h.catalog.UpdateBrand(ctx, &b); err != nil {
		h.respondCatalogError(w, err, "failed to update brand")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (h *AdminHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.DeleteBrand(ctx, chi.URLParam(r, "id")); err != nil {
		h.respondCatalogError(w, err, "failed to delete brand")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var b domain.Banner
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if b.Title == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}

	if err := h.catalog.CreateBanner(ctx, &b); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create banner")
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (h *AdminHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var b domain.Banner
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	b.ID = chi.URLParam(r, "id")

	if err := h.catalog.UpdateBanner(ctx, &b); err != nil {
		h.respondCatalogError(w, err, "failed to update banner")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (h *AdminHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.DeleteBanner(ctx, chi.URLParam(r, "id")); err != nil {
		h.respondCatalogError(w, err, "failed to delete banner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	users, err := h.catalog.Users(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.catalog.User(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.respondCatalogError(w, err, "failed to load user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var u domain.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if u.Phone == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "phone is required")
		return
	}

	if err := h.catalog.CreateUser(ctx, &u); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create user")
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var u domain.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	u.ID = chi.URLParam(r, "id")

	if err := h.catalog.UpdateUser(ctx, &u); err != nil {
		h.respondCatalogError(w, err, "failed to update user")
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.DeleteUser(ctx, chi.URLParam(r, "id")); err != nil {
		h.respondCatalogError(w, err, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	settings, err := h.catalog.Settings(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *AdminHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var s domain.Setting
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	s.ID = chi.URLParam(r, "id")

	if err := h.catalog.UpdateSetting(ctx, &s); err != nil {
		h.respondCatalogError(w, err, "failed to update setting")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

type UpdateOrderStatusRequestDTO struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order through its fulfillment lifecycle.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := h.orders.UpdateOrderStatus(ctx, chi.URLParam(r, "id"), status); err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update order status")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id"), "status": req.Status})
}

func (h *AdminHandler) respondCatalogError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "record not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", fallback)
}
