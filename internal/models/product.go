package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups products for browsing. Reference data as far as the
// order workflow is concerned.
type Category struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Slug       string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	gorm.Model `json:"-"`
}

// Product represents a product in the store. Stock is decremented by order
// placement and must never go negative.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=3,max=100"`
	Slug        string          `json:"slug" gorm:"uniqueIndex;type:varchar(120)"`
	CategoryID  string          `json:"category_id" gorm:"type:varchar(36);index" validate:"required"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,max=255"`
	gorm.Model  `json:"-"`
}

// InStock reports whether the product can currently be added to a cart.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
