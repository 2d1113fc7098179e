package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lapak/internal/export"
	"lapak/internal/models"
	"lapak/internal/repositories"
	"lapak/internal/services"
)

// DashboardHandler serves the seller dashboard: stats, order management,
// product management, customers, export, and sales reporting.
type DashboardHandler struct {
	orders   *services.OrderService
	products *services.ProductService
	reports  *services.ReportService
	logger   *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	orders *services.OrderService,
	products *services.ProductService,
	reports *services.ReportService,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		orders:   orders,
		products: products,
		reports:  reports,
		logger:   logger,
	}
}

// RegisterRoutes registers the dashboard routes. The router must already
// carry AuthRequired and SellerRequired.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	dash := router.Group("/dashboard")
	dash.Get("/", h.HandleDashboard)
	dash.Get("/orders", h.HandleOrderList)
	dash.Get("/orders/:id", h.HandleOrderDetail)
	dash.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
	dash.Get("/products", h.HandleProductList)
	dash.Post("/products", h.HandleAddProduct)
	dash.Put("/products/:id", h.HandleEditProduct)
	dash.Delete("/products/:id", h.HandleDeleteProduct)
	dash.Get("/customers", h.HandleCustomerList)
	dash.Get("/customers/export", h.HandleExportCustomers)
	dash.Get("/sales", h.HandleSalesData)
}

// HandleDashboard returns the dashboard landing statistics.
func (h *DashboardHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.reports.Dashboard()
	if err != nil {
		h.logger.Error("failed to build dashboard stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load dashboard",
			"error":   err.Error(),
		})
	}
	return c.JSON(stats)
}

// HandleOrderList lists orders filtered by status and date range. Invalid
// dates are silently ignored.
func (h *DashboardHandler) HandleOrderList(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{
		Status: models.OrderStatus(c.Query("status")),
	}
	if raw := c.Query("date_from"); raw != "" {
		if date, err := time.Parse("2006-01-02", raw); err == nil {
			filter.DateFrom = &date
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if date, err := time.Parse("2006-01-02", raw); err == nil {
			filter.DateTo = &date
		}
	}

	orders, err := h.orders.ListOrders(filter)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleOrderDetail returns a single order with its items.
func (h *DashboardHandler) HandleOrderDetail(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orders.GetOrder(orderID)
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

// UpdateStatusRequest carries the target status for an order.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus moves an order through its lifecycle.
func (h *DashboardHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required",
		})
	}

	order, err := h.orders.UpdateStatus(orderID, models.OrderStatus(req.Status))
	if err != nil {
		var invalidStatus *models.InvalidStatusError
		var invalidTransition *models.InvalidTransitionError
		if errors.As(err, &invalidStatus) || errors.As(err, &invalidTransition) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid status",
				"error":   err.Error(),
			})
		}
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		h.logger.Error("failed to update order status", zap.String("order_id", orderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated to %s", order.ID, order.Status),
		"order":   order,
	})
}

// HandleProductList lists products for the dashboard, including
// out-of-stock items, filtered by category and stock status.
func (h *DashboardHandler) HandleProductList(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		CategoryID:  c.Query("category"),
		StockStatus: c.Query("stock_status"),
	}
	products, err := h.products.ListAll(filter)
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleAddProduct creates a new product.
func (h *DashboardHandler) HandleAddProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.products.Create(&product); err != nil {
		return h.productError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Product '%s' added successfully", product.Name),
		"product": product,
	})
}

// HandleEditProduct updates an existing product.
func (h *DashboardHandler) HandleEditProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = c.Params("id")

	if err := h.products.Update(&product); err != nil {
		return h.productError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product '%s' updated successfully", product.Name),
		"product": product,
	})
}

// HandleDeleteProduct deletes a product.
func (h *DashboardHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.products.Delete(id); err != nil {
		return h.productError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// productError maps product CRUD failures onto HTTP responses.
func (h *DashboardHandler) productError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Please fill in all required fields",
			"errors":  validationErr.Fields,
		})
	}
	var notFound *models.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": notFound.Error(),
		})
	}
	h.logger.Error("product operation failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not save product",
		"error":   err.Error(),
	})
}

// HandleCustomerList lists all non-seller users.
func (h *DashboardHandler) HandleCustomerList(c *fiber.Ctx) error {
	customers, err := h.reports.Customers()
	if err != nil {
		h.logger.Error("failed to list customers", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve customers",
			"error":   err.Error(),
		})
	}
	return c.JSON(customers)
}

// HandleExportCustomers streams the customer spreadsheet as an attachment.
func (h *DashboardHandler) HandleExportCustomers(c *fiber.Ctx) error {
	rows, err := h.reports.CustomerRows()
	if err != nil {
		h.logger.Error("failed to build export rows", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not export customers",
			"error":   err.Error(),
		})
	}

	workbook, err := export.CustomerWorkbook(rows)
	if err != nil {
		h.logger.Error("failed to build workbook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not export customers",
			"error":   err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", export.CustomerFilename(time.Now())))
	return c.Send(workbook)
}

// HandleSalesData returns the sales summary for a period
// (week, month, or year; default week).
func (h *DashboardHandler) HandleSalesData(c *fiber.Ctx) error {
	summary, err := h.reports.Sales(c.Query("period", "week"))
	if err != nil {
		h.logger.Error("failed to build sales summary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve sales data",
			"error":   err.Error(),
		})
	}
	return c.JSON(summary)
}
