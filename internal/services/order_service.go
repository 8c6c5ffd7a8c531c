package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher // may be nil
	log         zerolog.Logger
}

// NewOrderService creates a new OrderService. events may be nil, in which case
// nothing is published.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events EventPublisher, log zerolog.Logger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
		log:         log.With().Str("service", "orders").Logger(),
	}
}

// CreateOrder creates an order owned by user.
func (s *OrderService) CreateOrder(ctx context.Context, user *models.User, date time.Time, note *string) (*models.Order, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	order := &models.Order{Date: date, Note: note, UserID: user.ID}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersCreatedTotal.Inc()

	s.publish(EventOrderCreated, map[string]interface{}{
		"orderId": order.ID,
		"userId":  order.UserID,
		"date":    order.Date.Format("2006-01-02"),
	})
	return order, nil
}

// GetOrdersForUser returns every order owned by user.
func (s *OrderService) GetOrdersForUser(ctx context.Context, user *models.User) ([]models.Order, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return s.orderRepo.GetByUser(ctx, user.ID)
}

// AuthorizeOrder loads an order for user, checking in this order: the order
// exists (ErrOrderNotFound), a user is present (ErrUnauthenticated), the user
// owns it (ErrForbidden). Existence is checked before identity.
func (s *OrderService) AuthorizeOrder(ctx context.Context, orderID int, user *models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrUnauthenticated
	}
	if !order.OwnedBy(user.ID) {
		s.log.Debug().Int("order_id", order.ID).Int("user_id", user.ID).Msg("order access denied")
		return nil, ErrForbidden
	}
	return order, nil
}

// AddProduct attaches a product to an already authorized order. An unknown
// product is ErrInvalidProduct, not ErrProductNotFound.
func (s *OrderService) AddProduct(ctx context.Context, order *models.Order, productID, quantity int) (*models.OrderProduct, error) {
	if !models.ValidID(productID) {
		return nil, ErrInvalidProduct
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidProduct
	}
	if err != nil {
		return nil, err
	}

	item := &models.OrderProduct{OrderID: order.ID, ProductID: product.ID, Quantity: quantity}
	if err := s.orderRepo.AddProduct(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrProductAlreadyInOrder
		}
		return nil, err
	}
	metrics.OrderItemsAddedTotal.Inc()

	s.publish(EventOrderProductAdded, map[string]interface{}{
		"orderId":   item.OrderID,
		"productId": item.ProductID,
		"quantity":  item.Quantity,
	})
	return item, nil
}

// GetProducts lists the products on an already authorized order.
func (s *OrderService) GetProducts(ctx context.Context, order *models.Order) ([]models.OrderedProduct, error) {
	return s.orderRepo.GetProducts(ctx, order.ID)
}

// publish never fails the caller; the write has already happened.
func (s *OrderService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(event, payload); err != nil {
		metrics.OrderEventsPublishedTotal.WithLabelValues(event, "error").Inc()
		s.log.Warn().Err(err).Str("event", event).Msg("failed to publish order event")
		return
	}
	metrics.OrderEventsPublishedTotal.WithLabelValues(event, "ok").Inc()
}
