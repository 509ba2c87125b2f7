package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Zombie-01/tire/internal/checkout"
	"github.com/Zombie-01/tire/internal/domain"
)

// CheckoutService is the slice of the checkout sequencer the handler consumes.
type CheckoutService interface {
	Begin(ctx context.Context, req checkout.BeginRequest) (checkout.SessionView, error)
	CheckPayment(ctx context.Context, sessionID string) (checkout.SessionView, error)
	RetrySubmit(ctx context.Context, sessionID string) (checkout.SessionView, error)
	Abandon(sessionID string) error
	Session(sessionID string) (checkout.SessionView, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type BeginCheckoutRequestDTO struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type SessionResponseDTO struct {
	SessionID string          `json:"session_id"`
	Status    string          `json:"status"`
	Mode      string          `json:"mode"`
	Total     int64           `json:"total"`
	Invoice   *domain.Invoice `json:"invoice,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func sessionResponse(view checkout.SessionView) SessionResponseDTO {
	resp := SessionResponseDTO{
		SessionID: view.ID,
		Status:    view.Status.String(),
		Mode:      string(view.Mode),
		Total:     view.Total,
		Invoice:   view.Invoice,
	}
	if view.LastErr != nil {
		resp.Error = view.LastErr.Error()
	}
	return resp
}

// BeginDelivery starts a delivery checkout: an invoice is created and the
// response carries the QR payload to render.
func (h *CheckoutHandler) BeginDelivery(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, domain.FulfillmentDelivery)
}

// BeginPickup starts a store-pickup checkout, which skips payment entirely.
func (h *CheckoutHandler) BeginPickup(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, domain.FulfillmentPickup)
}

func (h *CheckoutHandler) begin(w http.ResponseWriter, r *http.Request, mode domain.FulfillmentMode) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req BeginCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Phone == "" {
		respondError(w, http.StatusBadRequest, "invalid_phone", "phone is required")
		return
	}
	if mode == domain.FulfillmentDelivery && req.Address == "" {
		respondError(w, http.StatusBadRequest, "invalid_address", "address is required for delivery")
		return
	}

	view, err := h.checkout.Begin(ctx, checkout.BeginRequest{
		UserID:  userID,
		Phone:   req.Phone,
		Address: req.Address,
		Mode:    mode,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
		case errors.Is(err, checkout.ErrLoginRequired):
			respondError(w, http.StatusUnauthorized, "unauthorized", "login required")
		default:
			log.Printf("request %s: begin checkout failed: %v", getRequestID(r.Context()), err)
			respondError(w, http.StatusBadGateway, "invoice_failed", "could not create payment invoice")
		}
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse(view))
}

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse(view))
}

// CheckPayment is the user's "I have paid" button. It runs the same status
// check the background poll runs.
func (h *CheckoutHandler) CheckPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, ok := h.ownedSession(w, r); !ok {
		return
	}

	view, err := h.checkout.CheckPayment(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, checkout.ErrReconciliationRequired) {
			// Payment went through but the order write failed; the client is
			// told to retry submission, not to pay again.
			log.Printf("request %s: order submission failed after payment: %v", getRequestID(r.Context()), err)
			respondJSON(w, http.StatusBadGateway, sessionResponse(view))
			return
		}
		respondError(w, http.StatusBadGateway, "status_check_failed", "could not check payment status")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse(view))
}

func (h *CheckoutHandler) RetrySubmit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, ok := h.ownedSession(w, r); !ok {
		return
	}

	view, err := h.checkout.RetrySubmit(ctx, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrIllegalTransition):
			respondError(w, http.StatusConflict, "illegal_transition", "session is not awaiting order submission")
		case errors.Is(err, checkout.ErrReconciliationRequired):
			respondJSON(w, http.StatusBadGateway, sessionResponse(view))
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "retry failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse(view))
}

// Abandon stops payment polling when the user closes the payment view.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.ownedSession(w, r); !ok {
		return
	}

	if err := h.checkout.Abandon(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusNotFound, "not_found", "checkout session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ownedSession loads the session and enforces that it belongs to the caller.
func (h *CheckoutHandler) ownedSession(w http.ResponseWriter, r *http.Request) (checkout.SessionView, bool) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return checkout.SessionView{}, false
	}

	view, err := h.checkout.Session(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "checkout session not found")
		return checkout.SessionView{}, false
	}
	if view.UserID != userID {
		respondError(w, http.StatusForbidden, "permission_denied", "session belongs to another user")
		return checkout.SessionView{}, false
	}
	return view, true
}
