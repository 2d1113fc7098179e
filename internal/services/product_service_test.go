package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
)

type productTestEnv struct {
	products   *repositories.MockProductRepository
	categories *repositories.MockCategoryRepository
	service    *services.ProductService
	category   models.Category
}

func newProductTestEnv(t *testing.T) *productTestEnv {
	t.Helper()
	products := repositories.NewMockProductRepository()
	categories := repositories.NewMockCategoryRepository()

	category := models.Category{Name: "Sweet Martabak", Slug: "sweet-martabak"}
	require.NoError(t, categories.Create(&category))

	return &productTestEnv{
		products:   products,
		categories: categories,
		service:    services.NewProductService(products, categories),
		category:   category,
	}
}

func (env *productTestEnv) validProduct(name string, stock int) *models.Product {
	return &models.Product{
		Name:       name,
		CategoryID: env.category.ID,
		Price:      decimal.RequireFromString("65000"),
		Stock:      stock,
	}
}

func TestProductService_CreateGeneratesSlug(t *testing.T) {
	env := newProductTestEnv(t)

	product := env.validProduct("Chocolate Cheese Martabak", 10)
	require.NoError(t, env.service.Create(product))

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "chocolate-cheese-martabak", product.Slug)
}

func TestProductService_CreateRejectsMissingName(t *testing.T) {
	env := newProductTestEnv(t)

	product := env.validProduct("", 10)
	err := env.service.Create(product)

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "Name")
}

func TestProductService_CreateRejectsNonPositivePrice(t *testing.T) {
	env := newProductTestEnv(t)

	product := env.validProduct("Peanut Martabak", 10)
	product.Price = decimal.Zero
	err := env.service.Create(product)

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "price")
}

func TestProductService_CreateRejectsNegativeStock(t *testing.T) {
	env := newProductTestEnv(t)

	product := env.validProduct("Peanut Martabak", -1)
	err := env.service.Create(product)

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestProductService_CreateRejectsUnknownCategory(t *testing.T) {
	env := newProductTestEnv(t)

	product := env.validProduct("Peanut Martabak", 10)
	product.CategoryID = "nope"
	err := env.service.Create(product)

	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "category", notFound.Resource)
}

func TestProductService_ListPublicHidesOutOfStock(t *testing.T) {
	env := newProductTestEnv(t)

	require.NoError(t, env.service.Create(env.validProduct("Peanut Martabak", 5)))
	require.NoError(t, env.service.Create(env.validProduct("Sold Out Martabak", 0)))

	public, err := env.service.ListPublic(repositories.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Peanut Martabak", public[0].Name)

	all, err := env.service.ListAll(repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProductService_ListAllFiltersByStockStatus(t *testing.T) {
	env := newProductTestEnv(t)

	require.NoError(t, env.service.Create(env.validProduct("Plenty Martabak", 50)))
	require.NoError(t, env.service.Create(env.validProduct("Scarce Martabak", 3)))
	require.NoError(t, env.service.Create(env.validProduct("Gone Martabak", 0)))

	low, err := env.service.ListAll(repositories.ProductFilter{StockStatus: repositories.StockLowStock})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Scarce Martabak", low[0].Name)

	out, err := env.service.ListAll(repositories.ProductFilter{StockStatus: repositories.StockOutOfStock})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Gone Martabak", out[0].Name)
}

func TestProductService_GetBySlugHidesOutOfStock(t *testing.T) {
	env := newProductTestEnv(t)

	inStock := env.validProduct("Peanut Martabak", 5)
	soldOut := env.validProduct("Sold Out Martabak", 0)
	require.NoError(t, env.service.Create(inStock))
	require.NoError(t, env.service.Create(soldOut))

	got, err := env.service.GetBySlug("peanut-martabak")
	require.NoError(t, err)
	assert.Equal(t, inStock.ID, got.ID)

	_, err = env.service.GetBySlug("sold-out-martabak")
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	env := newProductTestEnv(t)

	product := env.validProduct("Peanut Martabak", 5)
	require.NoError(t, env.service.Create(product))

	product.Price = decimal.RequireFromString("60000")
	product.Stock = 8
	require.NoError(t, env.service.Update(product))

	stored, err := env.service.GetByID(product.ID)
	require.NoError(t, err)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("60000")))
	assert.Equal(t, 8, stored.Stock)

	require.NoError(t, env.service.Delete(product.ID))
	_, err = env.service.GetByID(product.ID)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Chocolate Cheese Martabak": "chocolate-cheese-martabak",
		"  Sweet Iced Tea  ":        "sweet-iced-tea",
		"Martabak #1 (Special!)":    "martabak-1-special",
		"already-a-slug":            "already-a-slug",
	}
	for input, want := range cases {
		assert.Equal(t, want, services.Slugify(input), "input %q", input)
	}
}
