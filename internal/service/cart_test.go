package service

import (
	"context"
	"testing"

	"paystack-storefront/internal/apperr"
	"paystack-storefront/internal/repository"
	"paystack-storefront/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddSameProductSumsQuantity(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db), testutil.Logger())
	ctx := context.Background()

	product := testutil.Product(t, db, testutil.Collection(t, db).ID, "4.25", 10)
	cart, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, cart.ID)
	assert.Empty(t, cart.Items)

	_, err = svc.AddItem(ctx, cart.ID, product.ID, 1)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, cart.ID, product.ID, 2)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(3), view.Items[0].Quantity)
	assert.True(t, view.Items[0].TotalPrice.Equal(decimal.RequireFromString("12.75")))
	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("12.75")))
}

func TestCartService_ItemLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db), testutil.Logger())
	ctx := context.Background()

	col := testutil.Collection(t, db)
	p1 := testutil.Product(t, db, col.ID, "1.50", 10)
	p2 := testutil.Product(t, db, col.ID, "3.00", 10)
	cart, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cart.ID, p1.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, cart.ID, p2.ID, 1)
	require.NoError(t, err)

	view, err := svc.SetItemQuantity(ctx, cart.ID, p1.ID, 4)
	require.NoError(t, err)
	assert.True(t, view.TotalPrice.Equal(decimal.RequireFromString("9")))

	require.NoError(t, svc.RemoveItem(ctx, cart.ID, p2.ID))
	assert.ErrorIs(t, svc.RemoveItem(ctx, cart.ID, p2.ID), apperr.ErrCartItemNotFound)

	_, err = svc.SetItemQuantity(ctx, cart.ID, p2.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrCartItemNotFound)

	view, err = svc.Get(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, p1.ID, view.Items[0].ProductID)

	require.NoError(t, svc.Delete(ctx, cart.ID))
	assert.ErrorIs(t, svc.Delete(ctx, cart.ID), apperr.ErrCartNotFound)
}

func TestCartService_Validation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db), testutil.Logger())
	ctx := context.Background()

	product := testutil.Product(t, db, testutil.Collection(t, db).ID, "1.00", 1)
	cart, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, cart.ID, product.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, cart.ID, 777, 1)
	assert.ErrorIs(t, err, apperr.ErrProductNotFound)

	_, err = svc.AddItem(ctx, uuid.New(), product.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrCartNotFound)

	_, err = svc.SetItemQuantity(ctx, cart.ID, product.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)
}
