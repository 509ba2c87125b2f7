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
)

// CartService is the slice of the cart store the handler consumes.
type CartService interface {
	Get(ctx context.Context, userID string) domain.CartState
	AddItem(ctx context.Context, userID string, item domain.LineItem) domain.CartState
	RemoveItem(ctx context.Context, userID, productID string) domain.CartState
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) domain.CartState
	Clear(ctx context.Context, userID string) domain.CartState
}

// ProductReader resolves a product id to its current catalog entry so the
// cart line can snapshot name, image and price at add time.
type ProductReader interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

type CartHandler struct {
	cart    CartService
	catalog ProductReader
	timeout time.Duration
}

func NewCartHandler(cart CartService, catalog ProductReader, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	respondJSON(w, http.StatusOK, h.cart.Get(ctx, userID))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	product, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	// Price and name are snapshotted here; later catalog edits do not touch
	// lines already in the cart.
	state := h.cart.AddItem(ctx, userID, domain.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.Image,
		Size:      product.Size,
		Price:     product.Price,
		Quantity:  1,
	})

	respondJSON(w, http.StatusCreated, state)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	respondJSON(w, http.StatusOK, h.cart.UpdateQuantity(ctx, userID, productID, req.Quantity))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	respondJSON(w, http.StatusOK, h.cart.RemoveItem(ctx, userID, productID))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	respondJSON(w, http.StatusOK, h.cart.Clear(ctx, userID))
}
