package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"lapak/internal/models"
)

func TestOrderStatus_Valid(t *testing.T) {
	valid := []models.OrderStatus{
		models.StatusPending,
		models.StatusProcessing,
		models.StatusDelivered,
		models.StatusCancelled,
	}
	for _, status := range valid {
		assert.True(t, status.Valid(), "expected %s to be valid", status)
	}

	for _, status := range []models.OrderStatus{"", "shipped", "PENDING", "done"} {
		assert.False(t, status.Valid(), "expected %s to be invalid", status)
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusPending, models.StatusDelivered, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusDelivered, true},
		{models.StatusProcessing, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusPending, false},
		{models.StatusDelivered, models.StatusProcessing, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusDelivered, false},
		{models.StatusPending, models.StatusPending, true},
		{models.StatusDelivered, models.StatusDelivered, true},
		{models.StatusPending, "shipped", false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderItem_LineTotal(t *testing.T) {
	item := models.OrderItem{
		Quantity: 3,
		Price:    decimal.RequireFromString("12.50"),
	}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("37.50")))
}
