package repositories

import (
	"github.com/shopspring/decimal"

	"lapak/internal/models"
)

// Stock filter values for ProductFilter.StockStatus.
const (
	StockInStock    = "in_stock"
	StockOutOfStock = "out_of_stock"
	StockLowStock   = "low_stock"
)

// LowStockThreshold is the upper bound (inclusive) for the low-stock filter.
const LowStockThreshold = 10

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID    string
	CategorySlug  string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	StockStatus   string
	Sort          string // column name, "-" prefix for descending
	OnlyAvailable bool   // restrict to stock > 0
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	Count() (int64, error)
}
