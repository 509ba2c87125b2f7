package orders

import (
	"context"
	"errors"
	"time"

	"github.com/Zombie-01/tire/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateOrder means an order with this id (the invoice id) already
	// exists; a repeated submission must be treated as already recorded, not
	// as a second order.
	ErrDuplicateOrder = errors.New("order with this id already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OutboxEvent is a row of the transactional outbox, written in the same
// transaction as its order and published to Kafka by the outbox poller.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
	RunMigrations(*Credentials) error
	Close() error
}
