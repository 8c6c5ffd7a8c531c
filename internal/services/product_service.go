package services

import (
	"context"
	"errors"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

// GetOrdersForProduct returns the caller's orders that contain the product.
func (s *ProductService) GetOrdersForProduct(ctx context.Context, productID int, user *models.User) ([]models.Order, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	product, err := s.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetOrdersForUser(ctx, product.ID, user.ID)
}
