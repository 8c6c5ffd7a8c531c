package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

type orderFixture struct {
	orders    *MockOrderRepository
	products  *MockProductRepository
	publisher *MockPublisher
	service   *services.OrderService
}

func newOrderFixture() orderFixture {
	f := orderFixture{
		orders:    new(MockOrderRepository),
		products:  new(MockProductRepository),
		publisher: new(MockPublisher),
	}
	f.service = services.NewOrderService(f.orders, f.products, f.publisher, zerolog.Nop())
	return f
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	user := &models.User{ID: 3}
	day := time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC)
	note := "Seeded order"

	f.orders.On("Create", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.UserID == 3 && o.Date.Equal(day) && o.Note == &note
	})).Return(nil).Once()
	f.publisher.On("PublishOrderEvent", services.EventOrderCreated, mock.Anything).Return(nil).Once()

	order, err := f.service.CreateOrder(ctx, user, day, &note)
	require.NoError(t, err)
	assert.Equal(t, 10, order.ID)
	assert.Equal(t, 3, order.UserID)

	_, err = f.service.CreateOrder(ctx, nil, day, nil)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	f.orders.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrderSurvivesPublishFailure(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()

	f.orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	f.publisher.On("PublishOrderEvent", services.EventOrderCreated, mock.Anything).Return(errors.New("broker down")).Once()

	order, err := f.service.CreateOrder(ctx, &models.User{ID: 1}, time.Now(), nil)
	assert.NoError(t, err)
	assert.NotNil(t, order)
	f.publisher.AssertExpectations(t)
}

func TestOrderService_AuthorizeOrderCheckOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	owner := &models.User{ID: 1}
	stranger := &models.User{ID: 2}
	order := &models.Order{ID: 7, UserID: 1}

	f.orders.On("GetByID", ctx, 404).Return(nil, repositories.ErrNotFound)
	f.orders.On("GetByID", ctx, 7).Return(order, nil)

	// Missing order wins over missing identity.
	_, err := f.service.AuthorizeOrder(ctx, 404, nil)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	_, err = f.service.AuthorizeOrder(ctx, 7, nil)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	_, err = f.service.AuthorizeOrder(ctx, 7, stranger)
	assert.ErrorIs(t, err, services.ErrForbidden)

	got, err := f.service.AuthorizeOrder(ctx, 7, owner)
	assert.NoError(t, err)
	assert.Equal(t, order, got)
}

func TestOrderService_AuthorizeOrderDatabaseError(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	boom := errors.New("connection reset")

	f.orders.On("GetByID", ctx, 1).Return(nil, boom).Once()
	_, err := f.service.AuthorizeOrder(ctx, 1, &models.User{ID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestOrderService_AddProduct(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	order := &models.Order{ID: 7, UserID: 1}

	// Test unknown product is invalid input, not a missing resource
	f.products.On("GetByID", ctx, 99).Return(nil, repositories.ErrNotFound).Once()
	_, err := f.service.AddProduct(ctx, order, 99, 1)
	assert.ErrorIs(t, err, services.ErrInvalidProduct)

	// Test successful insert
	f.products.On("GetByID", ctx, 2).Return(&models.Product{ID: 2}, nil).Once()
	f.orders.On("AddProduct", ctx, &models.OrderProduct{OrderID: 7, ProductID: 2, Quantity: 3}).Return(nil).Once()
	f.publisher.On("PublishOrderEvent", services.EventOrderProductAdded, mock.Anything).Return(nil).Once()
	item, err := f.service.AddProduct(ctx, order, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	// Test product already on the order
	f.products.On("GetByID", ctx, 2).Return(&models.Product{ID: 2}, nil).Once()
	f.orders.On("AddProduct", ctx, mock.AnythingOfType("*models.OrderProduct")).Return(repositories.ErrDuplicate).Once()
	_, err = f.service.AddProduct(ctx, order, 2, 1)
	assert.ErrorIs(t, err, services.ErrProductAlreadyInOrder)

	f.products.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestOrderService_WithoutPublisher(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	service := services.NewOrderService(orders, new(MockProductRepository), nil, zerolog.Nop())

	orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	_, err := service.CreateOrder(ctx, &models.User{ID: 1}, time.Now(), nil)
	assert.NoError(t, err)

	orders.On("GetByUser", ctx, 1).Return([]models.Order{{ID: 10, UserID: 1}}, nil).Once()
	list, err := service.GetOrdersForUser(ctx, &models.User{ID: 1})
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	orders.On("GetProducts", ctx, 10).Return([]models.OrderedProduct{{Quantity: 2}}, nil).Once()
	items, err := service.GetProducts(ctx, &models.Order{ID: 10})
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	orders.AssertExpectations(t)
}

func TestOrderService_AddProductRejectsIDsOutsideColumnRange(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	order := &models.Order{ID: 7, UserID: 1}

	for _, id := range []int{-1, models.MaxID + 1} {
		_, err := f.service.AddProduct(ctx, order, id, 1)
		assert.ErrorIs(t, err, services.ErrInvalidProduct, "productId %d", id)
	}

	// Neither id reaches the database.
	f.products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "AddProduct", mock.Anything, mock.Anything)
}
