package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	// Create is used by seeding only; the API exposes no product writes.
	Create(ctx context.Context, product *models.Product) error
	// GetOrdersForUser returns the orders of userID that contain productID.
	GetOrdersForUser(ctx context.Context, productID, userID int) ([]models.Order, error)
}
