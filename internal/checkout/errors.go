package checkout

import "errors"

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to check out")
	ErrLoginRequired   = errors.New("login required before checkout")
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrReconciliationRequired marks the partial-success case: the invoice
	// is paid but the order write failed. The invoice and cart are kept so
	// submission can be retried with the same order id.
	ErrReconciliationRequired = errors.New("payment confirmed but order not recorded")
	ErrIllegalTransition      = errors.New("illegal transition of checkout status")
)
