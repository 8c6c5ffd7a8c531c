package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, translate(err))
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err))
	}
	return nil
}

const ordersForProductByUserQuery = `
SELECT orders.*
FROM orders
JOIN orders_products ON orders.id = orders_products.order_id
WHERE orders_products.product_id = ?
  AND orders.user_id = ?
ORDER BY orders.id`

// GetOrdersForUser joins through the line-item table.
func (r *GORMProductRepository) GetOrdersForUser(ctx context.Context, productID, userID int) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.WithContext(ctx).Raw(ordersForProductByUserQuery, productID, userID).Scan(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for product %d and user %d: %w", productID, userID, err)
	}
	return orders, nil
}
