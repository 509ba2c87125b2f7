package domain

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// Invoice is issued by the payment gateway and is never mutated locally;
// its status is always re-fetched from the gateway.
type Invoice struct {
	InvoiceID string `json:"invoice_id"`
	QRImage   string `json:"qr_image"`
	ShortURL  string `json:"qPay_shortUrl"`
}
