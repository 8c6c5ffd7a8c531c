package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

func TestProductService_GetAllProducts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: 1, Title: "Apples", Price: 1.99},
		{ID: 2, Title: "Bananas", Price: 0.99},
	}

	mockRepo.On("GetAll", ctx).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProduct := &models.Product{ID: 1, Title: "Apples", Price: 1.99}

	// Test successful retrieval
	mockRepo.On("GetByID", ctx, 1).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", ctx, 99).Return(nil, fmt.Errorf("failed to get product by ID 99: %w", repositories.ErrNotFound)).Once()
	product, err = service.GetProductByID(ctx, 99)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetOrdersForProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)
	user := &models.User{ID: 4, Username: "alice"}

	// Test identity is checked before the product lookup
	_, err := service.GetOrdersForProduct(ctx, 99, nil)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	// Test unknown product
	mockRepo.On("GetByID", ctx, 99).Return(nil, repositories.ErrNotFound).Once()
	_, err = service.GetOrdersForProduct(ctx, 99, user)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	// Test orders are filtered by product and caller
	orders := []models.Order{{ID: 8, UserID: 4}}
	mockRepo.On("GetByID", ctx, 2).Return(&models.Product{ID: 2}, nil).Once()
	mockRepo.On("GetOrdersForUser", ctx, 2, 4).Return(orders, nil).Once()
	got, err := service.GetOrdersForProduct(ctx, 2, user)
	assert.NoError(t, err)
	assert.Equal(t, orders, got)

	mockRepo.AssertExpectations(t)
}
