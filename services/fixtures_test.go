package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/Kariqs/puffvibe-api/notifications"
	"github.com/Kariqs/puffvibe-api/repositories"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	events chan notifications.OrderEvent
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan notifications.OrderEvent, 16)}
}

func (r *recordingNotifier) NotifyOrder(_ context.Context, event notifications.OrderEvent) error {
	r.events <- event
	return nil
}

func (r *recordingNotifier) next(t *testing.T) notifications.OrderEvent {
	t.Helper()
	select {
	case event := <-r.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return notifications.OrderEvent{}
	}
}

type shopFixture struct {
	store    *repositories.MemoryStore
	catalog  *CatalogService
	orders   *OrderService
	product  *models.Product
	customer *models.User
	notifier *recordingNotifier
}

func newShopFixture(t *testing.T) *shopFixture {
	t.Helper()
	ctx := context.Background()

	store := repositories.NewMemoryStore()
	catalog := NewCatalogService(store, logger.Discard())
	created, err := catalog.SeedDefault(ctx)
	require.NoError(t, err)
	require.True(t, created)

	product, err := catalog.Pricing(ctx, DefaultProductName)
	require.NoError(t, err)

	customer := &models.User{Name: "Jane Wanjiru", Email: "jane@example.com", Phone: "0711000001", Role: models.RoleCustomer}
	require.NoError(t, store.CreateUser(ctx, customer))

	notifier := newRecordingNotifier()
	return &shopFixture{
		store:    store,
		catalog:  catalog,
		orders:   NewOrderService(store, orderPolicy, notifier, logger.Discard()),
		product:  product,
		customer: customer,
		notifier: notifier,
	}
}

func (f *shopFixture) place(t *testing.T, payment string, items ...OrderItemInput) *models.Order {
	t.Helper()
	order, err := f.orders.Place(context.Background(), f.customer.ID, PlaceOrderInput{
		Items:           items,
		DeliveryAddress: "Maseno University, Hostel B",
		PaymentMethod:   payment,
		MpesaCode:       "QWE123RTY",
	})
	require.NoError(t, err)
	f.notifier.next(t)
	return order
}

func (f *shopFixture) line(tier string, quantity int) OrderItemInput {
	return OrderItemInput{ProductID: f.product.ID, PricingTier: tier, Quantity: quantity}
}

func (f *shopFixture) stock(t *testing.T) models.Stock {
	t.Helper()
	product, err := f.store.GetProduct(context.Background(), f.product.ID)
	require.NoError(t, err)
	return product.Stock
}

func intPtr(v int) *int { return &v }
