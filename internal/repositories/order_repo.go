package repositories

import (
	"time"

	"github.com/shopspring/decimal"

	"lapak/internal/models"
)

// OrderFilter narrows seller-side order listings.
type OrderFilter struct {
	Status   models.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// ProductSales is an aggregated sales row for the top-products report.
type ProductSales struct {
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalSales    decimal.Decimal `json:"total_sales"`
}

// OrderRepository defines the interface for order data access.
//
// CreateWithItems must persist the order, its items, and the stock
// decrements as one atomic unit, with the decrement re-validated against
// remaining stock at commit time.
type OrderRepository interface {
	CreateWithItems(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByIDForUser(id, userID string) (*models.Order, error)
	GetAll(filter OrderFilter) ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	UpdateStatus(id string, status models.OrderStatus) error
	Count() (int64, error)
	Recent(limit int) ([]models.Order, error)
	SumDeliveredTotal() (decimal.Decimal, error)
	TotalsForDate(date time.Time) (decimal.Decimal, int64, error)
	TopProducts(since time.Time, limit int) ([]ProductSales, error)
}
