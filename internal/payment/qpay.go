package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Zombie-01/tire/internal/domain"
)

// QPayClient talks to the QPay invoice API over HTTP. All requests go
// through a shared circuit breaker so a dead gateway fails fast instead of
// stacking up timed-out checkout attempts.
type QPayClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewQPayClient(baseURL, token string, timeout time.Duration) *QPayClient {
	settings := gobreaker.Settings{
		Name:    "qpay",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &QPayClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (c *QPayClient) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*domain.Invoice, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal invoice request: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/api/qpay/invoice", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	var invoice domain.Invoice
	if err := json.Unmarshal(data, &invoice); err != nil {
		return nil, fmt.Errorf("decode invoice response: %w", err)
	}
	if invoice.InvoiceID == "" {
		return nil, fmt.Errorf("gateway returned invoice without an id")
	}
	return &invoice, nil
}

func (c *QPayClient) InvoiceStatus(ctx context.Context, invoiceID string) (domain.InvoiceStatus, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/qpay/check/"+invoiceID, nil)
	if err != nil {
		return "", fmt.Errorf("check invoice %s: %w", invoiceID, err)
	}

	var resp struct {
		Status domain.InvoiceStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}
	return resp.Status, nil
}

func (c *QPayClient) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("gateway request failed: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("read gateway response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
		}
		return data, nil
	})
}
