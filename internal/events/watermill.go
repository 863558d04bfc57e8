package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type sessionRevokedEvent struct {
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

type paymentCapturedEvent struct {
	OrderID    string    `json:"order_id"`
	PaymentID  string    `json:"payment_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WatermillPublisher implements Publisher on top of any watermill
// message.Publisher (redis streams in production, gochannel in tests).
type WatermillPublisher struct {
	publisher message.Publisher
}

func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

func (p *WatermillPublisher) PublishSessionRevoked(_ context.Context, reason string) error {
	return p.publish(TopicSessionRevoked, sessionRevokedEvent{
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *WatermillPublisher) PublishPaymentCaptured(_ context.Context, orderID, paymentID string) error {
	return p.publish(TopicPaymentCaptured, paymentCapturedEvent{
		OrderID:    orderID,
		PaymentID:  paymentID,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
