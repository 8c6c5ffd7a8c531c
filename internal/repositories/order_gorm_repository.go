package repositories

import (
	"context"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts the order and fills in its generated ID.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", translate(err))
	}
	return nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, translate(err))
	}
	return &order, nil
}

// GetByUser retrieves every order owned by userID.
func (r *GORMOrderRepository) GetByUser(ctx context.Context, userID int) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// AddProduct inserts a line item in a single statement.
func (r *GORMOrderRepository) AddProduct(ctx context.Context, item *models.OrderProduct) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to add product %d to order %d: %w", item.ProductID, item.OrderID, translate(err))
	}
	return nil
}

const productsForOrderQuery = `
SELECT products.*, orders_products.quantity
FROM products
JOIN orders_products ON products.id = orders_products.product_id
WHERE orders_products.order_id = ?
ORDER BY products.id`

// GetProducts returns the products on an order, each with its quantity.
func (r *GORMOrderRepository) GetProducts(ctx context.Context, orderID int) ([]models.OrderedProduct, error) {
	products := []models.OrderedProduct{}
	if err := r.db.WithContext(ctx).Raw(productsForOrderQuery, orderID).Scan(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products for order %d: %w", orderID, err)
	}
	return products, nil
}
