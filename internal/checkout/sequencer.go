package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Zombie-01/tire/internal/domain"
	"github.com/Zombie-01/tire/internal/payment"
	"github.com/Zombie-01/tire/internal/poller"
)

// CartStore is the slice of the cart store the sequencer consumes. The
// sequencer never mutates a cart except through Clear.
type CartStore interface {
	Get(ctx context.Context, userID string) domain.CartState
	Clear(ctx context.Context, userID string) domain.CartState
}

// OrderWriter persists orders keyed by a caller-supplied id.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

type BeginRequest struct {
	UserID  string
	Phone   string
	Address string
	Mode    domain.FulfillmentMode
}

// Session is one run of the checkout state machine, keyed by the invoice id
// (or a generated id for pickup orders that bypass settlement).
type Session struct {
	mu sync.Mutex

	id       string
	userID   string
	phone    string
	address  string
	mode     domain.FulfillmentMode
	status   domain.CheckoutStatus
	invoice  *domain.Invoice
	snapshot domain.CartState
	lastErr  error

	// idleSince is set once no further work is expected (completed or
	// abandoned); the janitor evicts the session after the retention window.
	idleSince time.Time

	// stopPolling is published after the polling loop starts; stopped records
	// a cancellation that arrived before the handle was stored.
	stopPolling func()
	stopped     bool
}

// SessionView is an immutable copy handed to callers.
type SessionView struct {
	ID      string
	UserID  string
	Phone   string
	Address string
	Mode    domain.FulfillmentMode
	Status  domain.CheckoutStatus
	Invoice *domain.Invoice
	Total   int64
	LastErr error
}

// Finished sessions are kept this long so status reads after completion
// still work, then the janitor drops them.
const (
	sessionRetention = 30 * time.Minute
	sweepInterval    = time.Minute
)

// Sequencer coordinates cart contents, the payment gateway and order
// persistence into one best-effort workflow per session.
type Sequencer struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cart         CartStore
	gateway      payment.Gateway
	orders       OrderWriter
	isDuplicate  func(error) bool
	pollInterval time.Duration
	retention    time.Duration
	log          *logrus.Logger

	baseCtx   context.Context
	cancel    context.CancelFunc
	stopSweep func()
}

func NewSequencer(cart CartStore, gateway payment.Gateway, orders OrderWriter, isDuplicate func(error) bool, pollInterval time.Duration, log *logrus.Logger) *Sequencer {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Sequencer{
		sessions:     make(map[string]*Session),
		cart:         cart,
		gateway:      gateway,
		orders:       orders,
		isDuplicate:  isDuplicate,
		pollInterval: pollInterval,
		retention:    sessionRetention,
		log:          log,
		baseCtx:      ctx,
		cancel:       cancel,
	}
	s.stopSweep = poller.Start(ctx, sweepInterval, func(context.Context) {
		s.sweep(time.Now())
	})
	return s
}

// Begin starts a checkout for the user's current cart. Delivery orders get a
// gateway invoice and a polling loop; pickup orders bypass settlement and go
// straight to order creation with the store-pickup sentinel address.
func (s *Sequencer) Begin(ctx context.Context, req BeginRequest) (SessionView, error) {
	if req.UserID == "" {
		return SessionView{}, ErrLoginRequired
	}

	snapshot := s.cart.Get(ctx, req.UserID)
	if snapshot.IsEmpty() {
		return SessionView{}, ErrEmptyCart
	}

	if req.Mode == domain.FulfillmentPickup {
		return s.beginPickup(ctx, req, snapshot)
	}
	return s.beginDelivery(ctx, req, snapshot)
}

func (s *Sequencer) beginDelivery(ctx context.Context, req BeginRequest, snapshot domain.CartState) (SessionView, error) {
	sess := &Session{
		userID:   req.UserID,
		phone:    req.Phone,
		address:  req.Address,
		mode:     domain.FulfillmentDelivery,
		status:   domain.CheckoutStatusIdle,
		snapshot: snapshot,
	}

	if err := sess.advance(domain.CheckoutStatusInvoiceRequested); err != nil {
		return SessionView{}, err
	}

	invoice, err := s.gateway.CreateInvoice(ctx, payment.CreateInvoiceRequest{
		Amount:      snapshot.Total,
		Description: fmt.Sprintf("Tire order, %d items", len(snapshot.Items)),
		Reference:   req.UserID,
	})
	if err != nil {
		// No session survives a failed invoice: the cart is untouched and
		// the user retries from scratch.
		return SessionView{}, fmt.Errorf("create invoice: %w", err)
	}

	sess.mu.Lock()
	sess.id = invoice.InvoiceID
	sess.invoice = invoice
	sess.mu.Unlock()
	if err := sess.advance(domain.CheckoutStatusAwaitingPayment); err != nil {
		return SessionView{}, err
	}

	s.mu.Lock()
	s.sessions[invoice.InvoiceID] = sess
	s.mu.Unlock()

	sessionID := invoice.InvoiceID
	stopFn := poller.Start(s.baseCtx, s.pollInterval, func(pollCtx context.Context) {
		if _, err := s.CheckPayment(pollCtx, sessionID); err != nil {
			s.log.WithError(err).WithField("session_id", sessionID).Warn("payment status poll failed")
		}
	})

	// The first tick can settle the session before the handle is stored; if a
	// cancellation was already requested, honor it now so the timer cannot
	// outlive the session.
	sess.mu.Lock()
	sess.stopPolling = stopFn
	stopRequested := sess.stopped
	sess.mu.Unlock()
	if stopRequested {
		stopFn()
	}

	return sess.view(), nil
}

func (s *Sequencer) beginPickup(ctx context.Context, req BeginRequest, snapshot domain.CartState) (SessionView, error) {
	order := &domain.Order{
		ID:      uuid.NewString(),
		UserID:  req.UserID,
		Phone:   req.Phone,
		Address: domain.PickupAddress,
		Items:   snapshot.Items,
		Total:   snapshot.Total,
		Status:  domain.OrderStatusReadyForPickup,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil && !s.isDuplicate(err) {
		return SessionView{}, fmt.Errorf("create pickup order: %w", err)
	}

	s.cart.Clear(ctx, req.UserID)

	sess := &Session{
		id:        order.ID,
		userID:    req.UserID,
		phone:     req.Phone,
		address:   domain.PickupAddress,
		mode:      domain.FulfillmentPickup,
		status:    domain.CheckoutStatusCompleted,
		snapshot:  snapshot,
		idleSince: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return sess.view(), nil
}

// CheckPayment performs one idempotent status check against the gateway.
// Both the automatic poll and the user's "check now" action land here;
// overlapping calls are safe because the AWAITING_PAYMENT -> SETTLING
// transition admits exactly one winner.
func (s *Sequencer) CheckPayment(ctx context.Context, sessionID string) (SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	sess.mu.Lock()
	if sess.status != domain.CheckoutStatusAwaitingPayment {
		view := sess.viewLocked()
		sess.mu.Unlock()
		return view, nil
	}
	invoiceID := sess.invoice.InvoiceID
	sess.mu.Unlock()

	status, err := s.gateway.InvoiceStatus(ctx, invoiceID)
	if err != nil {
		// A failed poll is not a payment failure; stay in AWAITING_PAYMENT.
		return sess.view(), fmt.Errorf("invoice status: %w", err)
	}
	if status != domain.InvoiceStatusPaid {
		return sess.view(), nil
	}

	sess.mu.Lock()
	if !domain.CanTransitionTo(sess.status, domain.CheckoutStatusSettling) {
		view := sess.viewLocked()
		sess.mu.Unlock()
		return view, nil
	}
	sess.status = domain.CheckoutStatusSettling
	sess.mu.Unlock()

	// Settlement observed: the polling timer must not outlive it.
	sess.stop()

	return s.settle(ctx, sess)
}

// settle submits the order using the invoice id as the order id and, on
// success, clears the cart and completes the session.
func (s *Sequencer) settle(ctx context.Context, sess *Session) (SessionView, error) {
	sess.mu.Lock()
	order := &domain.Order{
		ID:      sess.id,
		UserID:  sess.userID,
		Phone:   sess.phone,
		Address: sess.address,
		Items:   sess.snapshot.Items,
		Total:   sess.snapshot.Total,
		Status:  domain.OrderStatusPending,
	}
	userID := sess.userID
	sess.mu.Unlock()

	err := s.orders.CreateOrder(ctx, order)
	if err != nil && !s.isDuplicate(err) {
		sess.mu.Lock()
		sess.status = domain.CheckoutStatusErrored
		sess.lastErr = fmt.Errorf("%w: %v", ErrReconciliationRequired, err)
		view := sess.viewLocked()
		sess.mu.Unlock()

		s.log.WithError(err).WithField("session_id", view.ID).Error("order submission failed after confirmed payment")
		return view, view.LastErr
	}

	s.cart.Clear(ctx, userID)

	sess.mu.Lock()
	sess.status = domain.CheckoutStatusCompleted
	sess.lastErr = nil
	sess.idleSince = time.Now()
	view := sess.viewLocked()
	sess.mu.Unlock()

	return view, nil
}

// RetrySubmit re-runs order submission for a session stuck in ERRORED after
// a confirmed payment. The same order id keeps the retry idempotent.
func (s *Sequencer) RetrySubmit(ctx context.Context, sessionID string) (SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	sess.mu.Lock()
	if !domain.CanTransitionTo(sess.status, domain.CheckoutStatusSettling) {
		view := sess.viewLocked()
		sess.mu.Unlock()
		return view, ErrIllegalTransition
	}
	sess.status = domain.CheckoutStatusSettling
	sess.mu.Unlock()

	return s.settle(ctx, sess)
}

// Abandon stops the session's polling loop when the user dismisses the
// payment view. The session itself is kept so a later status read works,
// until the retention window expires.
func (s *Sequencer) Abandon(sessionID string) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	sess.stop()

	sess.mu.Lock()
	if sess.idleSince.IsZero() {
		sess.idleSince = time.Now()
	}
	sess.mu.Unlock()
	return nil
}

func (s *Sequencer) Session(sessionID string) (SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	return sess.view(), nil
}

// Close cancels every polling loop and the session janitor. Used on shutdown.
func (s *Sequencer) Close() {
	s.cancel()
	s.stopSweep()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.stop()
	}
}

// sweep evicts sessions that have been idle past the retention window, so the
// session map cannot grow without bound in a long-lived process.
func (s *Sequencer) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		expired := !sess.idleSince.IsZero() && now.Sub(sess.idleSince) > s.retention
		sess.mu.Unlock()
		if expired {
			delete(s.sessions, id)
		}
	}
}

func (s *Sequencer) session(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// advance moves the session one step through the checkout state machine,
// rejecting any step the transition table does not allow.
func (sess *Session) advance(next domain.CheckoutStatus) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !domain.CanTransitionTo(sess.status, next) {
		return ErrIllegalTransition
	}
	sess.status = next
	return nil
}

func (sess *Session) stop() {
	sess.mu.Lock()
	sess.stopped = true
	stop := sess.stopPolling
	sess.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (sess *Session) view() SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked()
}

func (sess *Session) viewLocked() SessionView {
	view := SessionView{
		ID:      sess.id,
		UserID:  sess.userID,
		Phone:   sess.phone,
		Address: sess.address,
		Mode:    sess.mode,
		Status:  sess.status,
		Total:   sess.snapshot.Total,
		LastErr: sess.lastErr,
	}
	if sess.invoice != nil {
		invoice := *sess.invoice
		view.Invoice = &invoice
	}
	return view
}
