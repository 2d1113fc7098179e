package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lapak/internal/models"
	"lapak/internal/services"
)

// CartHandler validates cart actions against current stock. The cart
// itself lives on the client; these endpoints only answer yes/no.
type CartHandler struct {
	products *services.ProductService
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(products *services.ProductService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers the cart AJAX routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/add/:id", h.HandleAddToCart)
	cartRoutes.Post("/remove/:id", h.HandleRemoveFromCart)
	cartRoutes.Post("/update/:id", h.HandleUpdateCart)
}

// HandleAddToCart checks that the product exists and has stock before the
// client adds it to its cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	product, err := h.products.GetByID(c.Params("id"))
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Product not found",
			})
		}
		h.logger.Error("cart add lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Could not check product",
		})
	}

	if !product.InStock() {
		return c.JSON(fiber.Map{
			"status":  "error",
			"message": "Product is out of stock",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("%s added to cart", product.Name),
	})
}

// HandleRemoveFromCart acknowledges a client-side removal.
func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Item removed from cart",
	})
}

// UpdateCartRequest carries the new quantity for a cart line.
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateCart validates a quantity change against current stock.
func (h *CartHandler) HandleUpdateCart(c *fiber.Ctx) error {
	product, err := h.products.GetByID(c.Params("id"))
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status":  "error",
				"message": "Product not found",
			})
		}
		h.logger.Error("cart update lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "Could not check product",
		})
	}

	var req UpdateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid request body",
		})
	}

	if req.Quantity <= 0 {
		return c.JSON(fiber.Map{
			"status":  "error",
			"message": "Quantity must be greater than zero",
		})
	}
	if req.Quantity > product.Stock {
		return c.JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("Only %d items available", product.Stock),
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Cart updated",
	})
}
