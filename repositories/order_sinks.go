package repositories

import (
	"context"
	"sync"

	"github.com/Kariqs/puffvibe-api/models"
	"gorm.io/gorm"
)

const DefaultRingCapacity = 100

// RingSink holds the most recent simple orders in memory. Once capacity is
// reached the oldest order is dropped for every new one.
type RingSink struct {
	mu       sync.RWMutex
	capacity int
	orders   []models.SimpleOrder
	counter  uint64
}

func NewRingSink(capacity int) *RingSink {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &RingSink{capacity: capacity, orders: make([]models.SimpleOrder, 0, capacity)}
}

func (r *RingSink) Save(_ context.Context, order *models.SimpleOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counter++
	order.OrderNumber = r.counter
	r.orders = append(r.orders, *order)
	if over := len(r.orders) - r.capacity; over > 0 {
		r.orders = append(r.orders[:0], r.orders[over:]...)
	}
	return nil
}

func (r *RingSink) Find(_ context.Context, orderID string) (*models.SimpleOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].OrderID == orderID {
			order := r.orders[i]
			return &order, nil
		}
	}
	return nil, ErrNotFound
}

// List returns the retained orders, newest first.
func (r *RingSink) List(context.Context) ([]models.SimpleOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.SimpleOrder, 0, len(r.orders))
	for i := len(r.orders) - 1; i >= 0; i-- {
		orders = append(orders, r.orders[i])
	}
	return orders, nil
}

// GormSink stores simple orders durably in the simple_orders table.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (g *GormSink) Save(ctx context.Context, order *models.SimpleOrder) error {
	return translate(g.db.WithContext(ctx).Create(order).Error)
}

func (g *GormSink) Find(ctx context.Context, orderID string) (*models.SimpleOrder, error) {
	var order models.SimpleOrder
	if err := g.db.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (g *GormSink) List(ctx context.Context) ([]models.SimpleOrder, error) {
	var orders []models.SimpleOrder
	err := g.db.WithContext(ctx).Order("order_number DESC").Find(&orders).Error
	return orders, err
}
