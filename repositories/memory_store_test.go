package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/Kariqs/puffvibe-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPlaceOrderAggregatesChanges(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	product := &models.Product{Name: "ORIS", Stock: models.Stock{Current: 3}, PricingTiers: models.DefaultPricingTiers()}
	require.NoError(t, store.CreateProduct(ctx, product))

	changes := []StockChange{
		{ProductID: product.ID, ProductName: "ORIS", Quantity: 2},
		{ProductID: product.ID, ProductName: "ORIS", Quantity: 2},
	}
	err := store.PlaceOrder(ctx, &models.Order{}, changes, nil)
	var shortage *StockShortage
	require.True(t, errors.As(err, &shortage))

	loaded, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Stock.Current)

	order := &models.Order{Items: []models.OrderItem{{ProductID: product.ID, Quantity: 3}}}
	ledger := []models.InventoryEntry{{ProductID: product.ID, UnitsSold: 3}}
	require.NoError(t, store.PlaceOrder(ctx, order, changes[:1], ledger))
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.Equal(t, order.ID, ledger[0].OrderID)

	order.Items[0].Quantity = 99
	stored, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Items[0].Quantity)
}

func TestRingSinkEvictsOldest(t *testing.T) {
	sink := NewRingSink(2)
	ctx := context.Background()
	for _, id := range []string{"PV1", "PV2", "PV3"} {
		require.NoError(t, sink.Save(ctx, &models.SimpleOrder{OrderID: id}))
	}

	_, err := sink.Find(ctx, "PV1")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := sink.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "PV3", all[0].OrderID)
	assert.Equal(t, uint64(3), all[0].OrderNumber)
}

func TestMemorySaveProductLeavesStockAlone(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	product := &models.Product{Name: "ORIS", Stock: models.Stock{Current: 100, Minimum: 10}, PricingTiers: models.DefaultPricingTiers()}
	require.NoError(t, store.CreateProduct(ctx, product))

	stale, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NoError(t, store.PlaceOrder(ctx, &models.Order{}, []StockChange{{ProductID: product.ID, Quantity: 5}}, nil))

	stale.Description = "new copy"
	require.NoError(t, store.SaveProduct(ctx, stale))

	saved, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "new copy", saved.Description)
	assert.Equal(t, models.Stock{Current: 95, Minimum: 10, Sold: 5}, saved.Stock)

	minimum := 20
	saved, err = store.SetStock(ctx, product.ID, nil, &minimum)
	require.NoError(t, err)
	assert.Equal(t, models.Stock{Current: 95, Minimum: 20, Sold: 5}, saved.Stock)
}

func TestMemoryListOrdersNegativeOffset(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.PlaceOrder(ctx, &models.Order{}, nil, nil))

	orders, total, err := store.ListOrders(ctx, OrderFilter{Offset: -4, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)
}
