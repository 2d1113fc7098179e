package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"lapak/internal/models"
	"lapak/internal/repositories"
)

// ProductService handles catalog browsing and seller-side product CRUD.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	validate     *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
		validate:     validator.New(),
	}
}

// ListPublic returns products for the storefront: only items in stock.
func (s *ProductService) ListPublic(filter repositories.ProductFilter) ([]models.Product, error) {
	filter.OnlyAvailable = true
	return s.repo.GetAll(filter)
}

// ListAll returns products for the dashboard, including out-of-stock items.
func (s *ProductService) ListAll(filter repositories.ProductFilter) ([]models.Product, error) {
	return s.repo.GetAll(filter)
}

// GetBySlug returns a storefront product. Out-of-stock products are hidden.
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if !product.InStock() {
		return nil, &models.NotFoundError{Resource: "product", ID: slug}
	}
	return product, nil
}

// GetByID retrieves a single product by its ID.
func (s *ProductService) GetByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// Create validates and creates a new product.
func (s *ProductService) Create(product *models.Product) error {
	if err := s.validateProduct(product); err != nil {
		return err
	}
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}
	return s.repo.Create(product)
}

// Update validates and updates an existing product.
func (s *ProductService) Update(product *models.Product) error {
	if err := s.validateProduct(product); err != nil {
		return err
	}
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}
	return s.repo.Update(product)
}

// Delete deletes a product by its ID.
func (s *ProductService) Delete(id string) error {
	return s.repo.Delete(id)
}

// Categories returns all categories.
func (s *ProductService) Categories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

func (s *ProductService) validateProduct(product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		fields := make(map[string]string)
		for _, e := range err.(validator.ValidationErrors) {
			fields[e.Field()] = "failed on the '" + e.Tag() + "' tag"
		}
		return &models.ValidationError{Fields: fields}
	}
	if product.Price.LessThanOrEqual(decimal.Zero) {
		return models.NewValidationError("price", "must be greater than zero")
	}
	// The category must exist before a product can reference it.
	if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
		return err
	}
	return nil
}

// Slugify turns a product name into a URL slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
