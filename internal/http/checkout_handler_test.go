package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Zombie-01/tire/internal/checkout"
	"github.com/Zombie-01/tire/internal/domain"
)

type checkoutMock struct {
	view checkout.SessionView
	err  error

	beginCalls   int
	checkCalls   int
	retryCalls   int
	abandonCalls int
	lastBegin    checkout.BeginRequest
}

func (c *checkoutMock) Begin(ctx context.Context, req checkout.BeginRequest) (checkout.SessionView, error) {
	c.beginCalls++
	c.lastBegin = req
	return c.view, c.err
}

func (c *checkoutMock) CheckPayment(ctx context.Context, sessionID string) (checkout.SessionView, error) {
	c.checkCalls++
	return c.view, c.err
}

func (c *checkoutMock) RetrySubmit(ctx context.Context, sessionID string) (checkout.SessionView, error) {
	c.retryCalls++
	return c.view, c.err
}

func (c *checkoutMock) Abandon(sessionID string) error {
	c.abandonCalls++
	if c.err != nil && errors.Is(c.err, checkout.ErrSessionNotFound) {
		return c.err
	}
	return nil
}

func (c *checkoutMock) Session(sessionID string) (checkout.SessionView, error) {
	if c.err != nil && errors.Is(c.err, checkout.ErrSessionNotFound) {
		return checkout.SessionView{}, c.err
	}
	return c.view, nil
}

func awaitingView() checkout.SessionView {
	return checkout.SessionView{
		ID:     "inv-123",
		UserID: "user-1",
		Mode:   domain.FulfillmentDelivery,
		Status: domain.CheckoutStatusAwaitingPayment,
		Total:  2500,
		Invoice: &domain.Invoice{
			InvoiceID: "inv-123",
			QRImage:   "aGVsbG8=",
			ShortURL:  "https://s.qpay.mn/abc",
		},
	}
}

func TestBeginDelivery_Success(t *testing.T) {
	mock := &checkoutMock{view: awaitingView()}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	body, _ := json.Marshal(BeginCheckoutRequestDTO{Phone: "99112233", Address: "Хан-Уул дүүрэг"})
	recorder := httptest.NewRecorder()
	handler.BeginDelivery(recorder, authedRequest("POST", "/checkout", body))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	var response SessionResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.SessionID != "inv-123" || response.Status != "AWAITING_PAYMENT" {
		t.Errorf("Unexpected session response: %+v", response)
	}
	if response.Invoice == nil || response.Invoice.QRImage != "aGVsbG8=" {
		t.Errorf("Expected invoice QR payload, got %+v", response.Invoice)
	}
	if mock.lastBegin.Mode != domain.FulfillmentDelivery {
		t.Errorf("Expected delivery mode, got %s", mock.lastBegin.Mode)
	}
}

func TestBeginPickup_SetsPickupMode(t *testing.T) {
	mock := &checkoutMock{view: checkout.SessionView{
		ID:     "order-1",
		UserID: "user-1",
		Mode:   domain.FulfillmentPickup,
		Status: domain.CheckoutStatusCompleted,
	}}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	body, _ := json.Marshal(BeginCheckoutRequestDTO{Phone: "99112233"})
	recorder := httptest.NewRecorder()
	handler.BeginPickup(recorder, authedRequest("POST", "/checkout/pickup", body))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}
	if mock.lastBegin.Mode != domain.FulfillmentPickup {
		t.Errorf("Expected pickup mode, got %s", mock.lastBegin.Mode)
	}

	var response SessionResponseDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Status != "COMPLETED" || response.Invoice != nil {
		t.Errorf("Pickup session should complete without invoice: %+v", response)
	}
}

func TestBeginDelivery_EmptyCart(t *testing.T) {
	mock := &checkoutMock{err: checkout.ErrEmptyCart}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	body, _ := json.Marshal(BeginCheckoutRequestDTO{Phone: "99112233", Address: "Хан-Уул дүүрэг"})
	recorder := httptest.NewRecorder()
	handler.BeginDelivery(recorder, authedRequest("POST", "/checkout", body))

	if recorder.Code != http.StatusConflict {
		t.Errorf("Expected status code %d, got %d", http.StatusConflict, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "empty_cart" {
		t.Errorf("Expected error code 'empty_cart', got '%s'", response.Code)
	}
}

func TestBeginDelivery_MissingAddress(t *testing.T) {
	mock := &checkoutMock{view: awaitingView()}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	body, _ := json.Marshal(BeginCheckoutRequestDTO{Phone: "99112233"})
	recorder := httptest.NewRecorder()
	handler.BeginDelivery(recorder, authedRequest("POST", "/checkout", body))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
	if mock.beginCalls != 0 {
		t.Errorf("Expected no begin call, got %d", mock.beginCalls)
	}
}

func TestBeginPickup_MissingAddressIsFine(t *testing.T) {
	mock := &checkoutMock{view: checkout.SessionView{
		ID:     "order-1",
		UserID: "user-1",
		Mode:   domain.FulfillmentPickup,
		Status: domain.CheckoutStatusCompleted,
	}}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	body, _ := json.Marshal(BeginCheckoutRequestDTO{Phone: "99112233"})
	recorder := httptest.NewRecorder()
	handler.BeginPickup(recorder, authedRequest("POST", "/checkout/pickup", body))

	if recorder.Code != http.StatusCreated {
		t.Errorf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}
}

func TestBeginDelivery_InvoiceFailure(t *testing.T) {
	mock := &checkoutMock{err: errors.New("gateway down")}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	body, _ := json.Marshal(BeginCheckoutRequestDTO{Phone: "99112233", Address: "Хан-Уул дүүрэг"})
	recorder := httptest.NewRecorder()
	handler.BeginDelivery(recorder, authedRequest("POST", "/checkout", body))

	if recorder.Code != http.StatusBadGateway {
		t.Errorf("Expected status code %d, got %d", http.StatusBadGateway, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "invoice_failed" {
		t.Errorf("Expected error code 'invoice_failed', got '%s'", response.Code)
	}
}

func TestGetSession_OtherUserForbidden(t *testing.T) {
	view := awaitingView()
	view.UserID = "someone-else"
	handler := NewCheckoutHandler(&checkoutMock{view: view}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withURLParam(authedRequest("GET", "/checkout/inv-123", nil), "id", "inv-123")

	handler.GetSession(recorder, request)

	if recorder.Code != http.StatusForbidden {
		t.Errorf("Expected status code %d, got %d", http.StatusForbidden, recorder.Code)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	handler := NewCheckoutHandler(&checkoutMock{err: checkout.ErrSessionNotFound}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withURLParam(authedRequest("GET", "/checkout/missing", nil), "id", "missing")

	handler.GetSession(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d, got %d", http.StatusNotFound, recorder.Code)
	}
}

func TestCheckPayment_ReconciliationSurfacesSession(t *testing.T) {
	view := awaitingView()
	view.Status = domain.CheckoutStatusErrored
	view.LastErr = fmt.Errorf("%w: orders db down", checkout.ErrReconciliationRequired)
	handler := NewCheckoutHandler(&checkoutMock{view: view, err: view.LastErr}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withURLParam(authedRequest("POST", "/checkout/inv-123/check", nil), "id", "inv-123")

	handler.CheckPayment(recorder, request)

	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("Expected status code %d, got %d", http.StatusBadGateway, recorder.Code)
	}

	var response SessionResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Status != "ERRORED" || response.Error == "" {
		t.Errorf("Expected errored session with message, got %+v", response)
	}
}

func TestRetrySubmit_IllegalTransition(t *testing.T) {
	mock := &checkoutMock{view: awaitingView(), err: checkout.ErrIllegalTransition}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withURLParam(authedRequest("POST", "/checkout/inv-123/retry", nil), "id", "inv-123")

	handler.RetrySubmit(recorder, request)

	if recorder.Code != http.StatusConflict {
		t.Errorf("Expected status code %d, got %d", http.StatusConflict, recorder.Code)
	}
}

func TestAbandon_Success(t *testing.T) {
	mock := &checkoutMock{view: awaitingView()}
	handler := NewCheckoutHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withURLParam(authedRequest("DELETE", "/checkout/inv-123", nil), "id", "inv-123")

	handler.Abandon(recorder, request)

	if recorder.Code != http.StatusNoContent {
		t.Errorf("Expected status code %d, got %d", http.StatusNoContent, recorder.Code)
	}
	if mock.abandonCalls != 1 {
		t.Errorf("Expected 1 abandon call, got %d", mock.abandonCalls)
	}
}
