package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle             CheckoutStatus = "IDLE"
	CheckoutStatusInvoiceRequested CheckoutStatus = "INVOICE_REQUESTED"
	CheckoutStatusAwaitingPayment  CheckoutStatus = "AWAITING_PAYMENT"
	CheckoutStatusSettling         CheckoutStatus = "SETTLING"
	CheckoutStatusCompleted        CheckoutStatus = "COMPLETED"
	CheckoutStatusErrored          CheckoutStatus = "ERRORED"
)

var checkoutTransitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusIdle:             {CheckoutStatusInvoiceRequested, CheckoutStatusErrored},
	CheckoutStatusInvoiceRequested: {CheckoutStatusAwaitingPayment, CheckoutStatusErrored},
	CheckoutStatusAwaitingPayment:  {CheckoutStatusSettling, CheckoutStatusErrored},
	CheckoutStatusSettling:         {CheckoutStatusCompleted, CheckoutStatusErrored},
	CheckoutStatusErrored:          {CheckoutStatusSettling, CheckoutStatusCompleted},
}

// CanTransitionTo reports whether moving from s to next is a legal step of
// the checkout state machine. ERRORED may resume into SETTLING/COMPLETED so
// a confirmed payment whose order write failed can be reconciled.
func CanTransitionTo(s, next CheckoutStatus) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
