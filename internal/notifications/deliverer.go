package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/logger"
)

// Deliverer hands a notification to the outside world.
type Deliverer interface {
	Deliver(ctx context.Context, notification *models.Notification) error
}

// LogDeliverer simulates delivery by writing the message to the structured log.
type LogDeliverer struct {
	logg *logger.Logger
}

// NewLogDeliverer returns the default deliverer used when no broker is configured.
func NewLogDeliverer(logg *logger.Logger) *LogDeliverer {
	return &LogDeliverer{logg: logg}
}

// Deliver logs the notification and always reports success.
func (d *LogDeliverer) Deliver(ctx context.Context, notification *models.Notification) error {
	if notification == nil {
		return errors.New("notification required")
	}
	if d.logg == nil {
		return nil
	}
	logCtx := d.logg.WithFields(ctx, map[string]any{
		"notification_id": notification.ID.String(),
		"recipient_id":    notification.UserID.String(),
		"kind":            notification.Kind.String(),
	})
	d.logg.Info(logCtx, "notification delivered (simulated)")
	return nil
}

type messagePublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// PubSubDeliverer publishes each notification to a Pub/Sub topic for a
// downstream messaging worker.
type PubSubDeliverer struct {
	publisher messagePublisher
}

// NewPubSubDeliverer publishes through publisher, which the caller owns and stops.
func NewPubSubDeliverer(publisher *pubsub.Publisher) (*PubSubDeliverer, error) {
	if publisher == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return &PubSubDeliverer{publisher: publisher}, nil
}

// Deliver blocks until the broker acknowledges the message.
func (d *PubSubDeliverer) Deliver(ctx context.Context, notification *models.Notification) error {
	msg, err := buildMessage(notification)
	if err != nil {
		return err
	}
	if _, err := d.publisher.Publish(ctx, msg).Get(ctx); err != nil {
		return fmt.Errorf("publish notification %s: %w", notification.ID, err)
	}
	return nil
}

type notificationMessage struct {
	NotificationID string    `json:"notificationId"`
	RecipientID    string    `json:"recipientId"`
	Kind           string    `json:"kind"`
	Message        string    `json:"message"`
	SentAt         time.Time `json:"sentAt"`
}

func buildMessage(notification *models.Notification) (*pubsub.Message, error) {
	if notification == nil {
		return nil, errors.New("notification required")
	}
	body, err := json.Marshal(notificationMessage{
		NotificationID: notification.ID.String(),
		RecipientID:    notification.UserID.String(),
		Kind:           notification.Kind.String(),
		Message:        notification.Message,
		SentAt:         notification.SentAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode notification: %w", err)
	}
	return &pubsub.Message{
		Data: body,
		Attributes: map[string]string{
			"event_type":   "notification." + notification.Kind.String(),
			"recipient_id": notification.UserID.String(),
		},
	}, nil
}
