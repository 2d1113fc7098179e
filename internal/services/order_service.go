package services

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lapak/internal/models"
	"lapak/internal/notifications"
	"lapak/internal/repositories"
)

// OrderService handles order placement, the status lifecycle, and the
// payment verification stub.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	notifier    notifications.Notifier
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. notifier may be nil when the
// broker is unavailable; placement then proceeds without notifications.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	notifier notifications.Notifier,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifier:    notifier,
		validate:    validator.New(),
		logger:      logger,
	}
}

// PlaceOrder validates the cart against current stock, computes the total
// from price snapshots, and persists the order, its items, and the stock
// decrements atomically. A confirmation notification is attempted after the
// commit; its failure never fails the placement.
func (s *OrderService) PlaceOrder(userID string, contact models.ContactDetails, cart models.Cart) (*models.Order, error) {
	if err := s.validate.Struct(contact); err != nil {
		fields := make(map[string]string)
		for _, e := range err.(validator.ValidationErrors) {
			fields[e.Field()] = "failed on the '" + e.Tag() + "' tag"
		}
		return nil, &models.ValidationError{Fields: fields}
	}

	if cart.Empty() {
		return nil, models.ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart))
	for productID, quantity := range cart {
		if quantity <= 0 {
			return nil, models.NewValidationError("quantity", "must be greater than zero")
		}

		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product.Stock < quantity {
			return nil, &models.InsufficientStockError{
				ProductName: product.Name,
				Requested:   quantity,
				Available:   product.Stock,
			}
		}

		// Snapshot the unit price; later product price changes must not
		// affect this order.
		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(quantity))))
	}

	order := &models.Order{
		ID:          uuid.New().String(),
		UserID:      userID,
		FullName:    contact.FullName,
		Email:       contact.Email,
		Phone:       contact.Phone,
		Address:     contact.Address,
		TotalAmount: total,
		Status:      models.StatusPending,
		Items:       items,
	}

	// The repository re-validates stock inside the transaction, so a
	// concurrent placement that drained the stock since the check above
	// rolls everything back.
	if err := s.orderRepo.CreateWithItems(order); err != nil {
		return nil, err
	}

	s.notify(notifications.KindOrderConfirmation, order)
	return order, nil
}

// UpdateStatus moves an order to a new lifecycle status. Transitions are
// forward-only; a same-status update is accepted without re-notifying.
func (s *OrderService) UpdateStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, &models.InvalidStatusError{Status: string(status)}
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return order, nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, &models.InvalidTransitionError{From: order.Status, To: status}
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	order.Status = status

	switch status {
	case models.StatusDelivered:
		s.notify(notifications.KindOrderDelivered, order)
	default:
		s.notify(notifications.KindStatusUpdate, order)
	}
	return order, nil
}

// VerifyBankTransfer records a bank-transfer payment claim for a pending
// order and flips it to processing. There is no gateway behind this; it is
// a stub status flip.
func (s *OrderService) VerifyBankTransfer(orderID, userID, transactionID, paymentDate string) error {
	if transactionID == "" || paymentDate == "" {
		return models.NewValidationError("payment", "transaction ID and payment date are required")
	}

	order, err := s.orderRepo.GetByIDForUser(orderID, userID)
	if err != nil {
		return err
	}
	if order.Status != models.StatusPending {
		return models.ErrPaymentNotPending
	}

	return s.orderRepo.UpdateStatus(orderID, models.StatusProcessing)
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrderForUser retrieves an order only if it belongs to the user.
func (s *OrderService) GetOrderForUser(id, userID string) (*models.Order, error) {
	return s.orderRepo.GetByIDForUser(id, userID)
}

// OrdersForUser returns a user's orders, newest first.
func (s *OrderService) OrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// ListOrders returns orders matching the seller-side filter.
func (s *OrderService) ListOrders(filter repositories.OrderFilter) ([]models.Order, error) {
	return s.orderRepo.GetAll(filter)
}

// notify dispatches a best-effort notification. Failures are logged and
// swallowed; they must never affect the primary operation.
func (s *OrderService) notify(kind notifications.Kind, order *models.Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(kind, order); err != nil {
		s.logger.Warn("notification failed",
			zap.String("kind", string(kind)),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}
