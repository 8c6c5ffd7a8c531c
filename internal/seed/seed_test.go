package seed_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/auth/authtest"
	"storefront/internal/database/databasetest"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/seed"
)

func TestRun(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()

	res, err := seed.Run(ctx, db, authtest.PlainHasher{}, zerolog.Nop())
	require.NoError(t, err)

	user, err := repositories.NewGORMUserRepository(db).GetByUsername(ctx, seed.Username)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
	assert.Equal(t, "plain:"+seed.Password, user.Password)

	products, err := repositories.NewGORMProductRepository(db).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 10)
	assert.Equal(t, "Apples", products[0].Title)
	assert.Equal(t, "Pasta", products[9].Title)
	assert.InDelta(t, 1.79, products[9].Price, 0.001)

	orders := repositories.NewGORMOrderRepository(db)
	owned, err := orders.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.NotNil(t, owned[0].Note)
	assert.Equal(t, "Seeded order", *owned[0].Note)
	assert.Equal(t, "2025-12-14", owned[0].Date.Format("2006-01-02"))

	items, err := orders.GetProducts(ctx, owned[0].ID)
	require.NoError(t, err)
	require.Len(t, items, 5)
	for i, item := range items {
		assert.Equal(t, products[i].ID, item.ID)
		assert.Equal(t, i+1, item.Quantity)
	}
}

func TestRunIsAtomic(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()

	_, err := seed.Run(ctx, db, authtest.PlainHasher{}, zerolog.Nop())
	require.NoError(t, err)

	// The username is taken now, so the second run fails before inserting
	// anything else.
	_, err = seed.Run(ctx, db, authtest.PlainHasher{}, zerolog.Nop())
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 10, count)
}
