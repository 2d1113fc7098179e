package repositories_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// openOrderDB opens a per-test in-memory database. The named shared-cache
// DSN keeps every pooled connection on the same database.
func openOrderDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New().String(),
		Name:       name,
		Slug:       strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		CategoryID: uuid.New().String(),
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func pendingOrder(product *models.Product, quantity int) *models.Order {
	return &models.Order{
		UserID:      "user-1",
		FullName:    "Budi Santoso",
		Email:       "budi@example.com",
		TotalAmount: product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Status:      models.StatusPending,
		Items: []models.OrderItem{
			{ProductID: product.ID, Quantity: quantity, Price: product.Price},
		},
	}
}

func TestCreateWithItems_DecrementsStock(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	product := createProduct(t, db, "Chocolate Martabak", "65000", 5)

	order := pendingOrder(product, 2)
	require.NoError(t, repo.CreateWithItems(order))
	assert.NotEmpty(t, order.ID)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 3, stored.Stock)

	loaded, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	assert.Equal(t, order.ID, loaded.Items[0].OrderID)
	require.NotNil(t, loaded.Items[0].Product)
	assert.Equal(t, product.Name, loaded.Items[0].Product.Name)
}

func TestCreateWithItems_RollsBackOnInsufficientStock(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	plenty := createProduct(t, db, "Peanut Martabak", "55000", 10)
	scarce := createProduct(t, db, "Beef Egg Martabak", "75000", 1)

	order := &models.Order{
		UserID:      "user-1",
		FullName:    "Budi Santoso",
		Email:       "budi@example.com",
		TotalAmount: decimal.RequireFromString("485000"),
		Status:      models.StatusPending,
		Items: []models.OrderItem{
			{ProductID: plenty.ID, Quantity: 2, Price: plenty.Price},
			{ProductID: scarce.ID, Quantity: 5, Price: scarce.Price},
		},
	}

	err := repo.CreateWithItems(order)
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Beef Egg Martabak", stockErr.ProductName)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	// The whole transaction rolled back: no order, no items, stock intact.
	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)

	var first, second models.Product
	require.NoError(t, db.First(&first, "id = ?", plenty.ID).Error)
	require.NoError(t, db.First(&second, "id = ?", scarce.ID).Error)
	assert.Equal(t, 10, first.Stock)
	assert.Equal(t, 1, second.Stock)
}

func TestCreateWithItems_UnknownProduct(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		UserID:      "user-1",
		FullName:    "Budi Santoso",
		Email:       "budi@example.com",
		TotalAmount: decimal.RequireFromString("10000"),
		Status:      models.StatusPending,
		Items: []models.OrderItem{
			{ProductID: "missing", Quantity: 1, Price: decimal.RequireFromString("10000")},
		},
	}

	err := repo.CreateWithItems(order)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestCreateWithItems_SequentialExhaustion(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	product := createProduct(t, db, "Last Martabak", "65000", 3)

	require.NoError(t, repo.CreateWithItems(pendingOrder(product, 2)))
	require.NoError(t, repo.CreateWithItems(pendingOrder(product, 1)))

	err := repo.CreateWithItems(pendingOrder(product, 1))
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 0, stockErr.Available)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 0, stored.Stock, "stock must never go negative")

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUpdateStatus(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	product := createProduct(t, db, "Chocolate Martabak", "65000", 5)

	order := pendingOrder(product, 1)
	require.NoError(t, repo.CreateWithItems(order))

	require.NoError(t, repo.UpdateStatus(order.ID, models.StatusProcessing))
	stored, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, stored.Status)

	err = repo.UpdateStatus("missing", models.StatusProcessing)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGetByIDForUser_ScopesToOwner(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	product := createProduct(t, db, "Chocolate Martabak", "65000", 5)

	order := pendingOrder(product, 1)
	require.NoError(t, repo.CreateWithItems(order))

	got, err := repo.GetByIDForUser(order.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = repo.GetByIDForUser(order.ID, "someone-else")
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGetAll_FiltersByStatus(t *testing.T) {
	db := openOrderDB(t)
	repo := repositories.NewGORMOrderRepository(db)
	product := createProduct(t, db, "Chocolate Martabak", "65000", 10)

	first := pendingOrder(product, 1)
	second := pendingOrder(product, 1)
	require.NoError(t, repo.CreateWithItems(first))
	require.NoError(t, repo.CreateWithItems(second))
	require.NoError(t, repo.UpdateStatus(second.ID, models.StatusDelivered))

	pending, err := repo.GetAll(repositories.OrderFilter{Status: models.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	all, err := repo.GetAll(repositories.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
