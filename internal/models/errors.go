package models

import (
	"errors"
	"fmt"
)

// ErrEmptyCart is returned when an order is placed with no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrPaymentNotPending is returned when payment verification is attempted
// on an order that is no longer pending.
var ErrPaymentNotPending = errors.New("only pending orders can be verified")

// ValidationError reports missing or malformed input. The request is not
// applied.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// InsufficientStockError reports a cart line requesting more than the
// available stock. Available is surfaced so the caller can retry.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d %s available (requested %d)", e.Available, e.ProductName, e.Requested)
}

// InvalidStatusError reports a status value outside the recognized set.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status: %s", e.Status)
}

// InvalidTransitionError reports a recognized status that the order cannot
// move to from its current state.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
