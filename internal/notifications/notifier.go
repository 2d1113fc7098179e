package notifications

import (
	"github.com/shopspring/decimal"

	"lapak/internal/models"
)

// Kind selects the customer-facing template a notification uses.
type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindStatusUpdate      Kind = "status_update"
	KindOrderDelivered    Kind = "order_delivered"
)

// Notifier dispatches a best-effort notification about an order. Callers
// must treat a returned error as non-fatal: log it and move on. Send must
// never be invoked inside a database transaction.
type Notifier interface {
	Send(kind Kind, order *models.Order) error
}

// Envelope is the message published to the notification queue. The
// consumer side resolves the template and handles the actual transport.
type Envelope struct {
	Kind        Kind               `json:"kind"`
	OrderID     string             `json:"order_id"`
	Email       string             `json:"email"`
	FullName    string             `json:"full_name"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
}

// NewEnvelope builds the queue payload for an order notification.
func NewEnvelope(kind Kind, order *models.Order) Envelope {
	return Envelope{
		Kind:        kind,
		OrderID:     order.ID,
		Email:       order.Email,
		FullName:    order.FullName,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	}
}
