package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesData is the daily sales rollup: one row per calendar date, created
// lazily and never recomputed once written.
type SalesData struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Date        time.Time       `json:"date" gorm:"uniqueIndex"`
	TotalSales  decimal.Decimal `json:"total_sales" gorm:"type:decimal(10,2)"`
	TotalOrders int64           `json:"total_orders"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DayOf normalizes t to midnight UTC, the key used for rollup rows.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
