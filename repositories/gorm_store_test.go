package repositories_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kariqs/puffvibe-api/initializers"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/Kariqs/puffvibe-api/repositories"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "puffvibe.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, initializers.SyncDatabase(db))
	return db
}

func seedProduct(t *testing.T, store *repositories.GormStore, current int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         "ORIS",
		PricingTiers: models.DefaultPricingTiers(),
		Stock:        models.Stock{Current: current, Minimum: models.DefaultMinimumStock},
		BuyingPrice:  5,
		Active:       true,
	}
	require.NoError(t, store.CreateProduct(context.Background(), product))
	return product
}

func seedUser(t *testing.T, store *repositories.GormStore, name, email, phone string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Phone: phone, Password: "hash", Role: models.RoleCustomer}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func newOrder(userID, productID uint, quantity int, payment string) *models.Order {
	total := float64(quantity) * 10
	return &models.Order{
		UserID:          userID,
		Items:           []models.OrderItem{{ProductID: productID, ProductName: "ORIS", PricingTier: models.TierSingle, Quantity: quantity, UnitPrice: 10, TotalPrice: total}},
		Subtotal:        total,
		DeliveryFee:     150,
		TotalAmount:     total + 150,
		PaymentMethod:   payment,
		PaymentStatus:   models.PaymentStatusPending,
		DeliveryAddress: "Maseno Hostel B",
		DeliveryStatus:  models.DeliveryStatusPending,
		TrackingNumber:  "PV-TRACK" + payment,
		Status:          models.OrderStatusPending,
	}
}

func TestGormProductTiersKeepOrder(t *testing.T) {
	store := repositories.NewGormStore(newTestDB(t))
	ctx := context.Background()
	product := seedProduct(t, store, 100)

	loaded, err := store.GetProductByName(ctx, "ORIS")
	require.NoError(t, err)
	require.Len(t, loaded.PricingTiers, 4)
	for i, name := range models.TierNames {
		assert.Equal(t, name, loaded.PricingTiers[i].Name)
	}

	loaded.PricingTiers = []models.PricingTier{{Name: models.TierPacket, Quantity: 1, Price: 220, Unit: "packet"}}
	loaded.Active = false
	require.NoError(t, store.SaveProduct(ctx, loaded))

	saved, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, saved.PricingTiers, 1)
	assert.Equal(t, 220.0, saved.PricingTiers[0].Price)
	assert.False(t, saved.Active)

	active, err := store.ListProducts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = store.GetProduct(ctx, 404)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGormPlaceOrderIsAllOrNothing(t *testing.T) {
	store := repositories.NewGormStore(newTestDB(t))
	ctx := context.Background()
	product := seedProduct(t, store, 3)
	user := seedUser(t, store, "Jane", "jane@example.com", "0711")

	first := newOrder(user.ID, product.ID, 2, models.PaymentMpesa)
	ledger := []models.InventoryEntry{{Date: time.Now(), ProductID: product.ID, UnitsSold: 2, AmountSold: 20}}
	require.NoError(t, store.PlaceOrder(ctx, first, []repositories.StockChange{{ProductID: product.ID, ProductName: "ORIS", Quantity: 2}}, ledger))
	assert.NotZero(t, first.ID)

	second := newOrder(user.ID, product.ID, 2, models.PaymentCash)
	err := store.PlaceOrder(ctx, second, []repositories.StockChange{{ProductID: product.ID, ProductName: "ORIS", Quantity: 2}},
		[]models.InventoryEntry{{Date: time.Now(), ProductID: product.ID, UnitsSold: 2}})
	var shortage *repositories.StockShortage
	require.True(t, errors.As(err, &shortage))
	assert.Equal(t, product.ID, shortage.ProductID)

	loaded, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Stock.Current)
	assert.Equal(t, 2, loaded.Stock.Sold)

	orders, total, err := store.ListOrders(ctx, repositories.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].User)
	assert.Equal(t, "Jane", orders[0].User.Name)

	entries, err := store.ListLedger(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, first.ID, entries[0].OrderID)
}

func TestGormListOrdersFilters(t *testing.T) {
	store := repositories.NewGormStore(newTestDB(t))
	ctx := context.Background()
	product := seedProduct(t, store, 100)
	jane := seedUser(t, store, "Jane Wanjiru", "jane@example.com", "0711")
	brian := seedUser(t, store, "Brian", "brian@example.com", "0722")

	for _, o := range []*models.Order{
		newOrder(jane.ID, product.ID, 1, models.PaymentMpesa),
		newOrder(jane.ID, product.ID, 5, models.PaymentCash),
		newOrder(brian.ID, product.ID, 2, models.PaymentCash),
	} {
		require.NoError(t, store.PlaceOrder(ctx, o, []repositories.StockChange{{ProductID: product.ID, Quantity: o.Items[0].Quantity}}, nil))
	}

	_, total, err := store.ListOrders(ctx, repositories.OrderFilter{UserID: &jane.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = store.ListOrders(ctx, repositories.OrderFilter{PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	minAmount := 170.0
	_, total, err = store.ListOrders(ctx, repositories.OrderFilter{MinAmount: &minAmount})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	ids, err := store.SearchUsers(ctx, "wanjiru")
	require.NoError(t, err)
	assert.Equal(t, []uint{jane.ID}, ids)

	found, _, err := store.ListOrders(ctx, repositories.OrderFilter{Query: "wanjiru", QueryUserIDs: ids})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	page, total, err := store.ListOrders(ctx, repositories.OrderFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}

func TestGormOrderStatusUpdates(t *testing.T) {
	store := repositories.NewGormStore(newTestDB(t))
	ctx := context.Background()
	product := seedProduct(t, store, 100)
	user := seedUser(t, store, "Jane", "jane@example.com", "0711")

	var ids []uint
	for range 2 {
		o := newOrder(user.ID, product.ID, 1, models.PaymentCash)
		require.NoError(t, store.PlaceOrder(ctx, o, []repositories.StockChange{{ProductID: product.ID, Quantity: 1}}, nil))
		ids = append(ids, o.ID)
	}

	updated, err := store.UpdateOrderStatus(ctx, ids[0], models.OrderStatusShipped, models.DeliveryStatusDispatched)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, models.DeliveryStatusDispatched, updated.DeliveryStatus)

	_, err = store.UpdateOrderStatus(ctx, 999, models.OrderStatusShipped, "")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	modified, err := store.BulkUpdateOrderStatus(ctx, ids, models.OrderStatusDelivered, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), modified)
}

func TestGormUsers(t *testing.T) {
	store := repositories.NewGormStore(newTestDB(t))
	ctx := context.Background()
	user := seedUser(t, store, "Jane", "jane@example.com", "0711")

	err := store.CreateUser(ctx, &models.User{Name: "Copy", Email: "jane@example.com", Phone: "0799"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	exists, err := store.UserExists(ctx, "other@example.com", "0711")
	require.NoError(t, err)
	assert.True(t, exists)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.TouchLastLogin(ctx, user.ID, now))
	loaded, err := store.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, loaded.LastLogin)
	assert.WithinDuration(t, now, *loaded.LastLogin, time.Second)

	count, err := store.CountUsers(ctx, models.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormSink(t *testing.T) {
	sink := repositories.NewGormSink(newTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"PV1", "PV2"} {
		require.NoError(t, sink.Save(ctx, &models.SimpleOrder{OrderID: id, CustomerName: "Brian", Cart: []byte(`[]`), CreatedAt: time.Now()}))
	}

	order, err := sink.Find(ctx, "PV2")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), order.OrderNumber)

	_, err = sink.Find(ctx, "PV9")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	all, err := sink.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "PV2", all[0].OrderID)

	err = sink.Save(ctx, &models.SimpleOrder{OrderID: "PV1", Cart: []byte(`[]`)})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func intPtr(v int) *int { return &v }

func TestGormSaveProductLeavesStockAlone(t *testing.T) {
	store := repositories.NewGormStore(newTestDB(t))
	ctx := context.Background()
	product := seedProduct(t, store, 100)
	user := seedUser(t, store, "Jane", "jane@example.com", "0711")

	stale, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.NoError(t, store.PlaceOrder(ctx, newOrder(user.ID, product.ID, 5, models.PaymentCash),
		[]repositories.StockChange{{ProductID: product.ID, ProductName: "ORIS", Quantity: 5}}, nil))

	stale.Description = "Premium ORIS products for Maseno delivery"
	require.NoError(t, store.SaveProduct(ctx, stale))

	saved, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Premium ORIS products for Maseno delivery", saved.Description)
	assert.Equal(t, models.Stock{Current: 95, Minimum: models.DefaultMinimumStock, Sold: 5}, saved.Stock)

	saved, err = store.SetStock(ctx, product.ID, nil, intPtr(20))
	require.NoError(t, err)
	assert.Equal(t, models.Stock{Current: 95, Minimum: 20, Sold: 5}, saved.Stock)

	saved, err = store.SetStock(ctx, product.ID, intPtr(60), nil)
	require.NoError(t, err)
	assert.Equal(t, models.Stock{Current: 60, Minimum: 20, Sold: 5}, saved.Stock)

	_, err = store.SetStock(ctx, 404, intPtr(1), nil)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, store.SaveProduct(ctx, &models.Product{Model: gorm.Model{ID: 404}, Name: "Ghost"}), repositories.ErrNotFound)
}
