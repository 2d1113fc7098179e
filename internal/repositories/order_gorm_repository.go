package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lapak/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// CreateWithItems persists the order, its items, and the stock decrements in
// a single transaction. Each decrement is conditioned on enough stock
// remaining, so a concurrent placement that exhausted the stock in between
// makes the whole transaction roll back with InsufficientStockError.
func (r *GORMOrderRepository) CreateWithItems(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				var product models.Product
				if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &models.NotFoundError{Resource: "product", ID: item.ProductID}
					}
					return fmt.Errorf("failed to re-read product %s: %w", item.ProductID, err)
				}
				return &models.InsufficientStockError{
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Stock,
				}
			}
		}
		return nil
	})
}

// GetByID returns an order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Preload("Items.Product").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "order", ID: id}
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByIDForUser returns an order only if it belongs to the given user.
func (r *GORMOrderRepository) GetByIDForUser(id, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Items.Product").
		First(&order, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "order", ID: id}
		}
		return nil, fmt.Errorf("failed to get order %s for user %s: %w", id, userID, err)
	}
	return &order, nil
}

// GetAll returns orders matching the filter, newest first.
func (r *GORMOrderRepository) GetAll(filter OrderFilter) ([]models.Order, error) {
	query := r.db.Preload("Items")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", models.DayOf(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("created_at < ?", models.DayOf(*filter.DateTo).Add(24*time.Hour))
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, nil
}

// GetByUser returns a user's orders, newest first.
func (r *GORMOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Resource: "order", ID: id}
	}
	return nil
}

// Count returns the total number of orders.
func (r *GORMOrderRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// Recent returns the most recently created orders.
func (r *GORMOrderRepository) Recent(limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Order("created_at DESC").Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}
	return orders, nil
}

// SumDeliveredTotal returns the sum of totals over delivered orders.
func (r *GORMOrderRepository) SumDeliveredTotal() (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("status = ?", models.StatusDelivered).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum delivered totals: %w", err)
	}
	return row.Total, nil
}

// TotalsForDate returns the sum of order totals and the order count for
// orders created on the given calendar date.
func (r *GORMOrderRepository) TotalsForDate(date time.Time) (decimal.Decimal, int64, error) {
	start := models.DayOf(date)
	end := start.Add(24 * time.Hour)

	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", start, end).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to aggregate orders for %s: %w", start.Format("2006-01-02"), err)
	}
	return row.Total, row.Count, nil
}

// TopProducts returns the best-selling products since the given time.
func (r *GORMOrderRepository) TopProducts(since time.Time, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	err := r.db.Model(&models.OrderItem{}).
		Select("products.name AS product_name, SUM(order_items.quantity) AS total_quantity, SUM(order_items.price * order_items.quantity) AS total_sales").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.created_at >= ?", since).
		Group("products.name").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top products: %w", err)
	}
	return rows, nil
}
