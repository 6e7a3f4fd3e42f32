package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kariqs/puffvibe-api/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// StockShortage is returned by PlaceOrder when a conditional decrement finds
// less stock than requested. Nothing from the order is persisted.
type StockShortage struct {
	ProductID   uint
	ProductName string
}

func (e *StockShortage) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s)", e.ProductID, e.ProductName)
}

// StockChange is the quantity sold of one product within an order.
type StockChange struct {
	ProductID   uint
	ProductName string
	Quantity    int
}

type OrderFilter struct {
	UserID        *uint
	Status        string
	PaymentMethod string
	From          *time.Time
	To            *time.Time
	MinAmount     *float64
	MaxAmount     *float64
	// Query matches mpesa code, tracking number, delivery address, the order
	// id and any user listed in QueryUserIDs.
	Query        string
	QueryUserIDs []uint
	Offset       int
	Limit        int
}

type ProductRepository interface {
	ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	// SaveProduct writes the descriptive columns and tier set. Stock columns
	// are never written from a loaded snapshot; use SetStock for those.
	SaveProduct(ctx context.Context, product *models.Product) error
	// SetStock writes only the supplied stock columns.
	SetStock(ctx context.Context, id uint, current, minimum *int) (*models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	// PlaceOrder decrements stock for every change, stores the order with its
	// items and appends the ledger entries, all or nothing.
	PlaceOrder(ctx context.Context, order *models.Order, changes []StockChange, ledger []models.InventoryEntry) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id uint, status, deliveryStatus string) (*models.Order, error)
	BulkUpdateOrderStatus(ctx context.Context, ids []uint, status, deliveryStatus string) (int64, error)
}

type LedgerRepository interface {
	ListLedger(ctx context.Context, from, to time.Time) ([]models.InventoryEntry, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, email, phone string) (bool, error)
	ListUsers(ctx context.Context, role string) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]uint, error)
	CountUsers(ctx context.Context, role string) (int64, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

// Store bundles every repository a backend provides.
type Store interface {
	ProductRepository
	OrderRepository
	LedgerRepository
	UserRepository
}
