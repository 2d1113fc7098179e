package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lapak/internal/models"
	"lapak/internal/services"
)

// OrderHandler handles buyer-facing order requests.
type OrderHandler struct {
	service *services.OrderService
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the order routes. All of them require an
// authenticated user.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/", h.HandleMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Post("/:id/verify-payment", h.HandleVerifyPayment)
}

// PlaceOrderRequest is the checkout submission: contact fields plus the
// client-held cart. When Items is empty the cart cookie is used instead.
type PlaceOrderRequest struct {
	FullName      string      `json:"full_name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	PaymentMethod string      `json:"payment_method"`
	Items         models.Cart `json:"items"`
}

// HandlePlaceOrder processes the checkout.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	cart := req.Items
	if cart.Empty() {
		// Fall back to the cart cookie kept by the storefront JS.
		if raw := c.Cookies("cart"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &cart); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"message": "Invalid cart cookie",
				})
			}
		}
	}

	contact := models.ContactDetails{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	order, err := h.service.PlaceOrder(userID(c), contact, cart)
	if err != nil {
		return h.placementError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order placed successfully",
		"order_id": order.ID,
		"order":    order,
	})
}

// placementError maps placement failures onto HTTP responses.
func (h *OrderHandler) placementError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Please fill in all required fields",
			"errors":  validationErr.Fields,
		})
	}
	if errors.Is(err, models.ErrEmptyCart) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Your cart is empty",
		})
	}
	var stockErr *models.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":   fmt.Sprintf("Only %d %s available", stockErr.Available, stockErr.ProductName),
			"available": stockErr.Available,
		})
	}
	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": notFound.Error(),
		})
	}

	h.logger.Error("order placement failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not place order",
		"error":   err.Error(),
	})
}

// HandleMyOrders lists the authenticated user's orders.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.OrdersForUser(userID(c))
	if err != nil {
		h.logger.Error("failed to list user orders", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrder returns one of the authenticated user's orders, for the
// order-success and tracking views.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderForUser(orderID, userID(c))
	if err != nil {
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		h.logger.Error("failed to get order", zap.String("order_id", orderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// VerifyPaymentRequest carries bank-transfer details for verification.
type VerifyPaymentRequest struct {
	TransactionID string `json:"transaction_id"`
	PaymentDate   string `json:"payment_date"`
}

// HandleVerifyPayment accepts a bank-transfer claim for a pending order.
func (h *OrderHandler) HandleVerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	err := h.service.VerifyBankTransfer(c.Params("id"), userID(c), req.TransactionID, req.PaymentDate)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Please provide transaction ID and payment date",
			})
		}
		if errors.Is(err, models.ErrPaymentNotPending) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "This order cannot be verified",
			})
		}
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		h.logger.Error("payment verification failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Payment verification failed. Please try again or contact support.",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Payment verification submitted. We will process your order shortly.",
	})
}

// userID reads the authenticated user's ID set by the auth middleware.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
