package notifications

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"lapak/internal/models"
	"lapak/pkg/rabbitmq"
)

// Queue publishes notification envelopes to RabbitMQ. The consumer picks
// them up and hands them to the email transport.
type Queue struct {
	client *rabbitmq.Client
	logger *zap.Logger
}

// NewQueue creates a queue-backed Notifier.
func NewQueue(client *rabbitmq.Client, logger *zap.Logger) *Queue {
	return &Queue{
		client: client,
		logger: logger,
	}
}

// Send publishes the notification envelope for the order.
func (q *Queue) Send(kind Kind, order *models.Order) error {
	body, err := json.Marshal(NewEnvelope(kind, order))
	if err != nil {
		return fmt.Errorf("failed to marshal notification envelope: %w", err)
	}
	if err := q.client.Publish(body); err != nil {
		return fmt.Errorf("failed to publish %s notification: %w", kind, err)
	}
	q.logger.Debug("notification published",
		zap.String("kind", string(kind)),
		zap.String("order_id", order.ID))
	return nil
}
