package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/database"
	"storefront-backend/model"
)

func TestProductsFilterAndPage(t *testing.T) {
	ctx := context.Background()
	store := New()
	for _, p := range []model.Product{
		{Name: "Red Shirt", Brand: "nike", Category: "men", Colors: []string{"Red"}, Sizes: []string{"M"}, Price: 9},
		{Name: "Blue Shirt", Brand: "nike", Category: "men", Colors: []string{"blue"}, Sizes: []string{"L"}, Price: 10},
		{Name: "Dress", Brand: "zara", Category: "women", Colors: []string{"red"}, Sizes: []string{"S"}, Price: 50},
		{Name: "Coat", Brand: "zara", Category: "women", Colors: []string{"black"}, Sizes: []string{"XL"}, Price: 51},
	} {
		p := p
		require.NoError(t, store.Products.Create(ctx, &p))
	}

	lo, hi := 10.0, 50.0
	priced := model.ProductFilter{MinPrice: &lo, MaxPrice: &hi}
	list, err := store.Products.List(ctx, priced, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Blue Shirt", list[0].Name)
	assert.Equal(t, "Dress", list[1].Name)

	red, err := store.Products.List(ctx, model.ProductFilter{Color: "RED"}, 0, 10)
	require.NoError(t, err)
	assert.Len(t, red, 2)

	n, err := store.Products.Count(ctx, model.ProductFilter{Name: "shirt"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	page, err := store.Products.List(ctx, model.ProductFilter{}, 3, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Coat", page[0].Name)

	empty, err := store.Products.List(ctx, model.ProductFilter{}, 8, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first, err := store.Products.List(ctx, model.ProductFilter{}, -8, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Red Shirt", first[0].Name)
}

func TestDuplicateNaturalKeys(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Users.Create(ctx, &model.User{Email: "Jane@Example.com"}))
	err := store.Users.Create(ctx, &model.User{Email: "jane@example.com"})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	require.NoError(t, store.Coupons.Create(ctx, &model.Coupon{Code: "sale10"}))
	got, err := store.Coupons.GetByCode(ctx, "Sale10")
	require.NoError(t, err)
	assert.Equal(t, "SALE10", got.Code)
	assert.ErrorIs(t, store.Coupons.Create(ctx, &model.Coupon{Code: "SALE10"}), database.ErrDuplicate)
}

func TestIncrementSoldMissingProduct(t *testing.T) {
	store := New()
	err := store.Products.IncrementSold(context.Background(), primitive.NewObjectID(), 2)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestOrderStats(t *testing.T) {
	ctx := context.Background()
	store := New()

	stats, err := store.Orders.Stats(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.OrderStats{}, *stats)

	for _, total := range []float64{20, 40, 90} {
		require.NoError(t, store.Orders.Create(ctx, &model.Order{TotalPrice: total}))
	}
	stats, err = store.Orders.Stats(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 20.0, stats.MinimumSale)
	assert.Equal(t, 90.0, stats.MaximumSale)
	assert.Equal(t, 150.0, stats.TotalSales)
	assert.Equal(t, 50.0, stats.AverageSale)
	assert.Equal(t, 150.0, stats.SaleToday)

	stats, err = store.Orders.Stats(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.SaleToday)
}
