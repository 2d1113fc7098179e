package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lapak/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// shares a product repository so CreateWithItems can simulate the
// transactional check-and-decrement of the GORM implementation.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// CreateWithItems stores the order after conditionally decrementing stock
// for every line. A failed decrement restores the earlier ones and leaves
// no trace of the order, mirroring a rolled-back transaction.
func (r *MockOrderRepository) CreateWithItems(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	applied := make([]models.OrderItem, 0, len(order.Items))
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
		if err := r.products.decrementStock(order.Items[i].ProductID, order.Items[i].Quantity); err != nil {
			for _, done := range applied {
				r.products.restoreStock(done.ProductID, done.Quantity)
			}
			return err
		}
		applied = append(applied, order.Items[i])
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "order", ID: id}
	}
	return &order, nil
}

// GetByIDForUser returns an order only if it belongs to the given user.
func (r *MockOrderRepository) GetByIDForUser(id, userID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.UserID != userID {
		return nil, &models.NotFoundError{Resource: "order", ID: id}
	}
	return &order, nil
}

// GetAll returns orders matching the filter, newest first.
func (r *MockOrderRepository) GetAll(filter OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.DateFrom != nil && order.CreatedAt.Before(models.DayOf(*filter.DateFrom)) {
			continue
		}
		if filter.DateTo != nil && !order.CreatedAt.Before(models.DayOf(*filter.DateTo).Add(24*time.Hour)) {
			continue
		}
		orderList = append(orderList, order)
	}
	sortOrdersNewestFirst(orderList)
	return orderList, nil
}

// GetByUser returns a user's orders, newest first.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	sortOrdersNewestFirst(orderList)
	return orderList, nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return &models.NotFoundError{Resource: "order", ID: id}
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// Count returns the number of stored orders.
func (r *MockOrderRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

// Recent returns the most recently created orders.
func (r *MockOrderRepository) Recent(limit int) ([]models.Order, error) {
	all, _ := r.GetAll(OrderFilter{})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// SumDeliveredTotal returns the sum of totals over delivered orders.
func (r *MockOrderRepository) SumDeliveredTotal() (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := decimal.Zero
	for _, order := range r.orders {
		if order.Status == models.StatusDelivered {
			total = total.Add(order.TotalAmount)
		}
	}
	return total, nil
}

// TotalsForDate aggregates orders created on the given calendar date.
func (r *MockOrderRepository) TotalsForDate(date time.Time) (decimal.Decimal, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := models.DayOf(date)
	end := start.Add(24 * time.Hour)

	total := decimal.Zero
	var count int64
	for _, order := range r.orders {
		if !order.CreatedAt.Before(start) && order.CreatedAt.Before(end) {
			total = total.Add(order.TotalAmount)
			count++
		}
	}
	return total, count, nil
}

// TopProducts returns the best-selling products since the given time.
func (r *MockOrderRepository) TopProducts(since time.Time, limit int) ([]ProductSales, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byProduct := make(map[string]*ProductSales)
	for _, order := range r.orders {
		if order.CreatedAt.Before(since) {
			continue
		}
		for _, item := range order.Items {
			name := item.ProductID
			if product, err := r.products.GetByID(item.ProductID); err == nil {
				name = product.Name
			}
			row, ok := byProduct[name]
			if !ok {
				row = &ProductSales{ProductName: name, TotalSales: decimal.Zero}
				byProduct[name] = row
			}
			row.TotalQuantity += int64(item.Quantity)
			row.TotalSales = row.TotalSales.Add(item.LineTotal())
		}
	}

	rows := make([]ProductSales, 0, len(byProduct))
	for _, row := range byProduct {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TotalQuantity > rows[j].TotalQuantity
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func sortOrdersNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
