package repositories

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Kariqs/puffvibe-api/models"
)

// MemoryStore keeps everything in process memory. It backs STORE_DRIVER=memory
// and the service tests. A single mutex serialises every mutation, which is
// what makes PlaceOrder's check-and-decrement atomic here.
type MemoryStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	products map[uint]models.Product
	orders   map[uint]models.Order
	users    map[uint]models.User
	ledger   []models.InventoryEntry
	nextID   struct{ product, order, item, tier, user, ledger uint }
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		products: make(map[uint]models.Product),
		orders:   make(map[uint]models.Order),
		users:    make(map[uint]models.User),
	}
}

// SetClock replaces the time source used for CreatedAt stamps.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func copyProduct(p models.Product) models.Product {
	p.PricingTiers = append([]models.PricingTier(nil), p.PricingTiers...)
	return p
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	if o.User != nil {
		u := *o.User
		o.User = &u
	}
	return o
}

func (s *MemoryStore) ListProducts(_ context.Context, activeOnly bool) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if activeOnly && !p.Active {
			continue
		}
		products = append(products, copyProduct(p))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = copyProduct(p)
	return &p, nil
}

func (s *MemoryStore) GetProductByName(_ context.Context, name string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.Product
	for _, p := range s.products {
		if p.Name == name && (found == nil || p.ID < found.ID) {
			c := copyProduct(p)
			found = &c
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (s *MemoryStore) assignTierIDs(product *models.Product) {
	for i := range product.PricingTiers {
		s.nextID.tier++
		product.PricingTiers[i].ID = s.nextID.tier
		product.PricingTiers[i].ProductID = product.ID
		product.PricingTiers[i].Position = i
	}
}

func (s *MemoryStore) CreateProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID.product++
	now := s.now()
	product.ID = s.nextID.product
	product.CreatedAt = now
	product.UpdatedAt = now
	s.assignTierIDs(product)
	s.products[product.ID] = copyProduct(*product)
	return nil
}

func (s *MemoryStore) SaveProduct(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return ErrNotFound
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.now()
	product.Stock = existing.Stock
	s.assignTierIDs(product)
	s.products[product.ID] = copyProduct(*product)
	return nil
}

func (s *MemoryStore) SetStock(_ context.Context, id uint, current, minimum *int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if current != nil {
		p.Stock.Current = *current
	}
	if minimum != nil {
		p.Stock.Minimum = *minimum
	}
	p.UpdatedAt = s.now()
	s.products[id] = p

	c := copyProduct(p)
	return &c, nil
}

func (s *MemoryStore) CountProducts(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func (s *MemoryStore) PlaceOrder(_ context.Context, order *models.Order, changes []StockChange, ledger []models.InventoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	needed := make(map[uint]int, len(changes))
	for _, change := range changes {
		needed[change.ProductID] += change.Quantity
		p, ok := s.products[change.ProductID]
		if !ok || p.Stock.Current < needed[change.ProductID] {
			return &StockShortage{ProductID: change.ProductID, ProductName: change.ProductName}
		}
	}
	for _, change := range changes {
		p := s.products[change.ProductID]
		p.Stock.Current -= change.Quantity
		p.Stock.Sold += change.Quantity
		s.products[change.ProductID] = p
	}

	now := s.now()
	s.nextID.order++
	order.ID = s.nextID.order
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		s.nextID.item++
		order.Items[i].ID = s.nextID.item
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = now
		order.Items[i].UpdatedAt = now
	}
	stored := copyOrder(*order)
	stored.User = nil
	s.orders[order.ID] = stored

	for i := range ledger {
		s.nextID.ledger++
		ledger[i].ID = s.nextID.ledger
		ledger[i].OrderID = order.ID
		ledger[i].CreatedAt = now
		s.ledger = append(s.ledger, ledger[i])
	}
	return nil
}

func (s *MemoryStore) withUser(o models.Order) models.Order {
	o = copyOrder(o)
	if u, ok := s.users[o.UserID]; ok {
		o.User = &u
	}
	return o
}

func (s *MemoryStore) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o = s.withUser(o)
	return &o, nil
}

func (s *MemoryStore) matches(o models.Order, f OrderFilter) bool {
	if f.UserID != nil && o.UserID != *f.UserID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.PaymentMethod != "" && o.PaymentMethod != f.PaymentMethod {
		return false
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && o.CreatedAt.After(*f.To) {
		return false
	}
	if f.MinAmount != nil && o.TotalAmount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && o.TotalAmount > *f.MaxAmount {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(f.Query))
	if text == "" {
		return true
	}
	for _, field := range []string{o.MpesaCode, o.TrackingNumber, o.DeliveryAddress} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	for _, id := range f.QueryUserIDs {
		if o.UserID == id {
			return true
		}
	}
	if id, err := strconv.ParseUint(text, 10, 64); err == nil && uint64(o.ID) == id {
		return true
	}
	return false
}

func (s *MemoryStore) ListOrders(_ context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []models.Order
	for _, o := range s.orders {
		if s.matches(o, filter) {
			orders = append(orders, s.withUser(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})

	total := int64(len(orders))
	if filter.Limit > 0 {
		start := min(max(filter.Offset, 0), len(orders))
		end := min(start+filter.Limit, len(orders))
		orders = orders[start:end]
	}
	return orders, total, nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id uint, status, deliveryStatus string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if status != "" {
		o.Status = status
	}
	if deliveryStatus != "" {
		o.DeliveryStatus = deliveryStatus
	}
	o.UpdatedAt = s.now()
	s.orders[id] = o

	o = s.withUser(o)
	return &o, nil
}

func (s *MemoryStore) BulkUpdateOrderStatus(_ context.Context, ids []uint, status, deliveryStatus string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == "" && deliveryStatus == "" {
		return 0, nil
	}

	var modified int64
	for _, id := range ids {
		o, ok := s.orders[id]
		if !ok {
			continue
		}
		if (status == "" || o.Status == status) && (deliveryStatus == "" || o.DeliveryStatus == deliveryStatus) {
			continue
		}
		if status != "" {
			o.Status = status
		}
		if deliveryStatus != "" {
			o.DeliveryStatus = deliveryStatus
		}
		o.UpdatedAt = s.now()
		s.orders[id] = o
		modified++
	}
	return modified, nil
}

func (s *MemoryStore) ListLedger(_ context.Context, from, to time.Time) ([]models.InventoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.InventoryEntry
	for _, e := range s.ledger {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Phone == user.Phone {
			return ErrDuplicate
		}
	}
	s.nextID.user++
	now := s.now()
	user.ID = s.nextID.user
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UserExists(_ context.Context, email, phone string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email || u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListUsers(_ context.Context, role string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []models.User
	for _, u := range s.users {
		if role == "" || u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID > users[j].ID
	})
	return users, nil
}

func (s *MemoryStore) SearchUsers(_ context.Context, query string) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text := strings.ToLower(strings.TrimSpace(query))
	var ids []uint
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Name), text) ||
			strings.Contains(strings.ToLower(u.Phone), text) ||
			strings.Contains(strings.ToLower(u.Email), text) {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryStore) CountUsers(_ context.Context, role string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, u := range s.users {
		if role == "" || u.Role == role {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = &at
	s.users[id] = u
	return nil
}
