package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int) (*models.Order, error)
	GetByUser(ctx context.Context, userID int) ([]models.Order, error)
	AddProduct(ctx context.Context, item *models.OrderProduct) error
	GetProducts(ctx context.Context, orderID int) ([]models.OrderedProduct, error)
	// Orders are never updated or deleted.
}
