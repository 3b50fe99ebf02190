package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yeremiapane/digital-menu/models"
	"github.com/yeremiapane/digital-menu/utils"
)

// Queue names double as routing keys on the default exchange.
const (
	EventOwnerProvisioned    = "owner.provisioned"
	EventOwnerIdentityFailed = "owner.identity_failed"
	EventOwnerOnboarded      = "owner.onboarded"
)

// OwnerEvent is the payload of every owner lifecycle message.
type OwnerEvent struct {
	Type       string      `json:"type"`
	Email      string      `json:"email"`
	Plan       models.Plan `json:"plan,omitempty"`
	Subdomain  string      `json:"subdomain,omitempty"`
	Detail     string      `json:"detail,omitempty"`
	OccurredAt string      `json:"occurred_at"`
}

func NewOwnerEvent(kind string, user *models.User, detail string) OwnerEvent {
	return OwnerEvent{
		Type:       kind,
		Email:      user.Email,
		Plan:       user.Plan,
		Subdomain:  user.Subdomain,
		Detail:     detail,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// EventPublisher delivers owner events. Publishing is best-effort: callers
// log failures and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, event OwnerEvent) error
}

// NoopPublisher drops events; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OwnerEvent) error { return nil }

// AMQPPublisher dials the broker per message, which is plenty for the
// handful of lifecycle events an owner produces.
type AMQPPublisher struct {
	url string
}

func NewEventPublisher(url string) EventPublisher {
	if url == "" {
		return NoopPublisher{}
	}
	return &AMQPPublisher{url: url}
}

func (p *AMQPPublisher) Publish(ctx context.Context, event OwnerEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(event.Type, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return ch.PublishWithContext(ctx, "", event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// publishBestEffort sends event with a short timeout and only logs failures.
func publishBestEffort(publisher EventPublisher, event OwnerEvent) {
	if publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := publisher.Publish(ctx, event); err != nil {
		utils.ErrorLogger.WithField("event", event.Type).
			WithField("email", event.Email).
			Errorf("Failed to publish owner event: %v", err)
	}
}
