package payment

import (
	"context"

	"github.com/Zombie-01/tire/internal/domain"
)

// CreateInvoiceRequest carries the cart total and a caller reference into
// the gateway. Amount is a minor-unit-free tugrik value.
type CreateInvoiceRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

// Gateway is the payment-provider boundary. Consumers define this interface,
// not the QPay implementation.
type Gateway interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*domain.Invoice, error)
	InvoiceStatus(ctx context.Context, invoiceID string) (domain.InvoiceStatus, error)
}
