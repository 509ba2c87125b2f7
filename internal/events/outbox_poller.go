package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Zombie-01/tire/internal/orders"
)

const orderEventsTopic = "order-events"

// OutboxSource is the slice of the orders repository the poller consumes.
type OutboxSource interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*orders.OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OutboxPoller drains the order outbox into Kafka. Publishing is at-least-
// once: an event is marked processed only after its write succeeds.
type OutboxPoller struct {
	tick   time.Duration
	repo   OutboxSource
	writer MessageWriter
	log    *logrus.Logger
}

func NewOutboxPoller(repo OutboxSource, log *logrus.Logger, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderEventsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{tick: time.Second, repo: repo, writer: w, log: log}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) Close() {
	if err := p.writer.Close(); err != nil {
		p.log.WithError(err).Error("error closing kafka writer")
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, 100)
	if err != nil {
		p.log.WithError(err).Error("failed to fetch outbox events")
		return
	}

	for _, event := range events {
		if errPublish := p.publish(ctx, event); errPublish != nil {
			p.log.WithError(errPublish).WithField("event_id", event.ID).Error("failed to publish event")
			continue
		}

		if errMark := p.repo.MarkEventAsProcessed(ctx, event.ID); errMark != nil {
			p.log.WithError(errMark).WithField("event_id", event.ID).Error("failed to mark event as processed")
			continue
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *orders.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // order id for ordering
		Value: event.Payload,             // Already JSON from database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
