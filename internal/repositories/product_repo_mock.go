package repositories

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"lapak/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns products matching the filter.
func (r *MockProductRepository) GetAll(filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if filter.OnlyAvailable && p.Stock <= 0 {
			continue
		}
		switch filter.StockStatus {
		case StockInStock:
			if p.Stock <= 0 {
				continue
			}
		case StockOutOfStock:
			if p.Stock != 0 {
				continue
			}
		case StockLowStock:
			if p.Stock <= 0 || p.Stock > LowStockThreshold {
				continue
			}
		}
		productList = append(productList, p)
	}

	desc := strings.HasPrefix(filter.Sort, "-")
	column := strings.TrimPrefix(filter.Sort, "-")
	sort.Slice(productList, func(i, j int) bool {
		var less bool
		switch column {
		case "price":
			less = productList[i].Price.LessThan(productList[j].Price)
		case "stock":
			less = productList[i].Stock < productList[j].Stock
		default:
			less = productList[i].Name < productList[j].Name
		}
		if desc {
			return !less
		}
		return less
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "product", ID: id}
	}
	return &product, nil
}

// GetBySlug returns a product by its slug.
func (r *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug {
			product := p
			return &product, nil
		}
	}
	return nil, &models.NotFoundError{Resource: "product", ID: slug}
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return &models.NotFoundError{Resource: "product", ID: product.ID}
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return &models.NotFoundError{Resource: "product", ID: id}
	}
	delete(r.products, id)
	return nil
}

// Count returns the number of stored products.
func (r *MockProductRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// decrementStock atomically applies a conditional stock decrement. It fails
// without mutating anything when the remaining stock is lower than qty.
func (r *MockProductRepository) decrementStock(id string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return &models.NotFoundError{Resource: "product", ID: id}
	}
	if product.Stock < qty {
		return &models.InsufficientStockError{
			ProductName: product.Name,
			Requested:   qty,
			Available:   product.Stock,
		}
	}
	product.Stock -= qty
	r.products[id] = product
	return nil
}

// restoreStock reverses a previous decrement during rollback.
func (r *MockProductRepository) restoreStock(id string, qty int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product, ok := r.products[id]; ok {
		product.Stock += qty
		r.products[id] = product
	}
}
