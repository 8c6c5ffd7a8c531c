// Package seed loads the demo data set used for local development.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

const (
	Username = "testuser"
	Password = "password123"

	orderNote = "Seeded order"
	// Products attached to the seeded order, taken from the front of Products.
	orderedProducts = 5
)

// OrderDate is the date of the seeded order.
var OrderDate = time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC)

// Products is the seeded catalogue, inserted in this order.
var Products = []models.Product{
	{Title: "Apples", Description: "Fresh apples", Price: 1.99},
	{Title: "Bananas", Description: "Yellow bananas", Price: 0.99},
	{Title: "Oranges", Description: "Juicy oranges", Price: 2.49},
	{Title: "Milk", Description: "1 gallon of milk", Price: 3.49},
	{Title: "Bread", Description: "Whole wheat bread", Price: 2.99},
	{Title: "Eggs", Description: "Dozen eggs", Price: 4.29},
	{Title: "Cheese", Description: "Cheddar cheese", Price: 5.99},
	{Title: "Chicken", Description: "Chicken breast", Price: 7.99},
	{Title: "Rice", Description: "White rice", Price: 2.19},
	{Title: "Pasta", Description: "Penne pasta", Price: 1.79},
}

// Result summarizes what Run inserted.
type Result struct {
	User     models.User
	Products []models.Product
	Order    models.Order
}

// Run inserts the demo user, the catalogue and one order holding the first
// five products with quantities 1 to 5. Everything happens in a single
// transaction; on error nothing is kept.
func Run(ctx context.Context, db *gorm.DB, hasher auth.PasswordHasher, log zerolog.Logger) (*Result, error) {
	hash, err := hasher.Hash(Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	res := &Result{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repositories.NewGORMUserRepository(tx)
		products := repositories.NewGORMProductRepository(tx)
		orders := repositories.NewGORMOrderRepository(tx)

		res.User = models.User{Username: Username, Password: hash}
		if err := users.Create(ctx, &res.User); err != nil {
			return err
		}
		log.Info().Int("user_id", res.User.ID).Str("username", Username).Msg("seed user created")

		res.Products = make([]models.Product, len(Products))
		copy(res.Products, Products)
		for i := range res.Products {
			if err := products.Create(ctx, &res.Products[i]); err != nil {
				return err
			}
		}
		log.Info().Int("count", len(res.Products)).Msg("seed products created")

		note := orderNote
		res.Order = models.Order{Date: OrderDate, Note: &note, UserID: res.User.ID}
		if err := orders.Create(ctx, &res.Order); err != nil {
			return err
		}
		for i, p := range res.Products[:orderedProducts] {
			item := models.OrderProduct{OrderID: res.Order.ID, ProductID: p.ID, Quantity: i + 1}
			if err := orders.AddProduct(ctx, &item); err != nil {
				return err
			}
		}
		log.Info().Int("order_id", res.Order.ID).Int("items", orderedProducts).Msg("seed order created")
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed failed: %w", err)
	}
	return res, nil
}
