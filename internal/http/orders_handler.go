package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Zombie-01/tire/internal/domain"
	"github.com/Zombie-01/tire/internal/orders"
)

// OrderReader is the read-only slice of the orders repository the storefront
// consumes.
type OrderReader interface {
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
}

type OrdersHandler struct {
	orders  OrderReader
	timeout time.Duration
}

func NewOrdersHandler(orders OrderReader, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

// ListOrders returns the caller's own order history.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	list, err := h.orders.ListOrdersByUserID(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}
	if list == nil {
		list = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := h.orders.GetOrderByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}

	// Admins may inspect any order; customers only their own.
	if order.UserID != userID && getUserRoleFromContext(r.Context()) != "admin" {
		respondError(w, http.StatusForbidden, "permission_denied", "order belongs to another user")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
