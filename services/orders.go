package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/Kariqs/puffvibe-api/notifications"
	"github.com/Kariqs/puffvibe-api/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemInput struct {
	ProductID   uint   `json:"productId" binding:"required"`
	PricingTier string `json:"pricingTier" binding:"required"`
	Quantity    int    `json:"quantity"`
}

type PlaceOrderInput struct {
	Items           []OrderItemInput `json:"items"`
	DeliveryAddress string           `json:"deliveryAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	MpesaCode       string           `json:"mpesaCode"`
}

// Viewer identifies who is asking for an order.
type Viewer struct {
	UserID uint
	Role   string
}

func (v Viewer) IsAdmin() bool { return v.Role == models.RoleAdmin }

type OrderService struct {
	products repositories.ProductRepository
	orders   repositories.OrderRepository
	users    repositories.UserRepository
	policy   DeliveryFeePolicy
	notifier notifications.Notifier
	log      *logger.Logger
	now      func() time.Time
}

func NewOrderService(store repositories.Store, policy DeliveryFeePolicy, notifier notifications.Notifier, log *logger.Logger) *OrderService {
	if notifier == nil {
		notifier = notifications.Nop{}
	}
	return &OrderService{
		products: store,
		orders:   store,
		users:    store,
		policy:   policy,
		notifier: notifier,
		log:      log.WithComponent("order_service"),
		now:      time.Now,
	}
}

// Calculate prices an anonymous cart with the order delivery policy.
func (s *OrderService) Calculate(items []LineItem) (Totals, error) {
	return Calculate(items, s.policy)
}

// Quote resolves one product tier into a cart line without reserving stock.
func (s *OrderService) Quote(ctx context.Context, item OrderItemInput) (*models.OrderItem, error) {
	if item.Quantity < 1 {
		return nil, ValidationError("Quantity must be at least 1")
	}
	product, err := s.products.GetProduct(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("Product not found")
		}
		return nil, InternalError("Error fetching product", err)
	}
	tier, ok := product.Tier(item.PricingTier)
	if !ok {
		return nil, InvalidTierError(item.PricingTier)
	}
	if product.Stock.Current < item.Quantity {
		return nil, InsufficientStockError(product.Name)
	}
	total := decimal.NewFromFloat(tier.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
	return &models.OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		PricingTier: tier.Name,
		Quantity:    item.Quantity,
		UnitPrice:   tier.Price,
		TotalPrice:  total.InexactFloat64(),
	}, nil
}

type resolvedLine struct {
	product *models.Product
	tier    models.PricingTier
	input   OrderItemInput
}

// Place validates every line against current stock before anything is
// written, then commits stock, order and ledger entries together.
func (s *OrderService) Place(ctx context.Context, userID uint, input PlaceOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ValidationError("Order must contain at least one item")
	}
	if !models.IsOneOf(input.PaymentMethod, models.PaymentMethods) {
		return nil, ValidationError("Payment method must be one of: %s", strings.Join(models.PaymentMethods, ", "))
	}
	address := strings.TrimSpace(input.DeliveryAddress)
	if address == "" {
		return nil, ValidationError("Delivery address is required")
	}

	products := make(map[uint]*models.Product)
	requested := make(map[uint]int)
	var changeOrder []uint
	lines := make([]resolvedLine, 0, len(input.Items))
	for i, item := range input.Items {
		if item.Quantity < 1 {
			return nil, ValidationError("item %d: quantity must be a positive integer", i+1)
		}

		product, ok := products[item.ProductID]
		if !ok {
			found, err := s.products.GetProduct(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return nil, NotFoundError("Product not found: %d", item.ProductID)
				}
				return nil, InternalError("Error fetching product", err)
			}
			if !found.Active {
				return nil, NotFoundError("Product not found: %d", item.ProductID)
			}
			product = found
			products[item.ProductID] = product
			changeOrder = append(changeOrder, product.ID)
		}

		tier, ok := product.Tier(item.PricingTier)
		if !ok {
			return nil, InvalidTierError(item.PricingTier)
		}

		requested[product.ID] += item.Quantity
		if requested[product.ID] > product.Stock.Current {
			return nil, InsufficientStockError(product.Name)
		}
		lines = append(lines, resolvedLine{product: product, tier: tier, input: item})
	}

	priceLines := make([]LineItem, len(lines))
	for i, line := range lines {
		priceLines[i] = LineItem{Quantity: line.input.Quantity, UnitPrice: line.tier.Price}
	}
	totals, err := Calculate(priceLines, s.policy)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:          userID,
		Subtotal:        totals.Subtotal,
		DeliveryFee:     totals.DeliveryFee,
		TotalAmount:     totals.TotalAmount,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		DeliveryAddress: address,
		DeliveryStatus:  models.DeliveryStatusPending,
		TrackingNumber:  newTrackingNumber(),
		Status:          models.OrderStatusPending,
	}
	if input.PaymentMethod == models.PaymentMpesa {
		order.PaymentStatus = models.PaymentStatusCompleted
		order.MpesaCode = strings.TrimSpace(input.MpesaCode)
	}

	now := s.now()
	ledger := make([]models.InventoryEntry, 0, len(lines))
	for i, line := range lines {
		priced := totals.Items[i]
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.product.ID,
			ProductName: line.product.Name,
			PricingTier: line.tier.Name,
			Quantity:    priced.Quantity,
			UnitPrice:   priced.UnitPrice,
			TotalPrice:  priced.TotalPrice,
		})
		ledger = append(ledger, ledgerEntry(now, line.product, priced, input.PaymentMethod))
	}

	changes := make([]repositories.StockChange, 0, len(changeOrder))
	for _, id := range changeOrder {
		changes = append(changes, repositories.StockChange{
			ProductID:   id,
			ProductName: products[id].Name,
			Quantity:    requested[id],
		})
	}

	if err := s.orders.PlaceOrder(ctx, order, changes, ledger); err != nil {
		var shortage *repositories.StockShortage
		if errors.As(err, &shortage) {
			s.log.Warn("Stock changed before order commit", "product_id", shortage.ProductID)
			return nil, InsufficientStockError(shortage.ProductName)
		}
		s.log.Error("Failed to place order", "user_id", userID, "error", err)
		return nil, InternalError("Error creating order", err)
	}

	s.log.Info("Order placed",
		"order_id", order.ID,
		"user_id", userID,
		"total", order.TotalAmount,
		"payment_method", order.PaymentMethod,
	)
	go s.notify(*order)
	return order, nil
}

func ledgerEntry(at time.Time, product *models.Product, line PricedLine, paymentMethod string) models.InventoryEntry {
	entry := models.InventoryEntry{
		Date:         at,
		ProductID:    product.ID,
		UnitsSold:    line.Quantity,
		AmountSold:   line.TotalPrice,
		SellingPrice: line.UnitPrice,
		BuyingPrice:  product.BuyingPrice,
		TotalBalance: line.TotalPrice,
	}
	if product.BuyingPrice > 0 {
		margin := decimal.NewFromFloat(line.UnitPrice).Sub(decimal.NewFromFloat(product.BuyingPrice))
		entry.Profit = margin.Mul(decimal.NewFromInt(int64(line.Quantity))).InexactFloat64()
	}
	if paymentMethod == models.PaymentMpesa {
		entry.MpesaSales = line.TotalPrice
	} else {
		entry.CashSales = line.TotalPrice
	}
	return entry
}

func newTrackingNumber() string {
	return "PV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func (s *OrderService) notify(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	event := notifications.OrderEvent{
		Type:            notifications.EventOrderCreated,
		Reference:       order.TrackingNumber,
		DeliveryAddress: order.DeliveryAddress,
		PaymentMethod:   order.PaymentMethod,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.TotalAmount,
		CreatedAt:       order.CreatedAt,
	}
	if user, err := s.users.GetUser(ctx, order.UserID); err == nil {
		event.CustomerName = user.Name
		event.CustomerEmail = user.Email
		event.CustomerPhone = user.Phone
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, notifications.EventItem{
			Name:        item.ProductName,
			PricingTier: item.PricingTier,
			Quantity:    item.Quantity,
			TotalPrice:  item.TotalPrice,
		})
	}

	if err := s.notifier.NotifyOrder(ctx, event); err != nil {
		s.log.Warn("Order notification failed", "order_id", order.ID, "error", err)
	}
}

func (s *OrderService) MyOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, _, err := s.orders.ListOrders(ctx, repositories.OrderFilter{UserID: &userID})
	if err != nil {
		return nil, InternalError("Error fetching orders", err)
	}
	return orders, nil
}

// Get returns an order to its owner or to an admin.
func (s *OrderService) Get(ctx context.Context, id uint, viewer Viewer) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("Order not found")
		}
		return nil, InternalError("Error fetching order", err)
	}
	if order.UserID != viewer.UserID && !viewer.IsAdmin() {
		return nil, ForbiddenError("Not authorized to view this order")
	}
	return order, nil
}

func validateStatuses(status, deliveryStatus string) error {
	if status == "" && deliveryStatus == "" {
		return ValidationError("Status or deliveryStatus is required")
	}
	if status != "" && !models.IsOneOf(status, models.OrderStatuses) {
		return ValidationError("Status must be one of: %s", strings.Join(models.OrderStatuses, ", "))
	}
	if deliveryStatus != "" && !models.IsOneOf(deliveryStatus, models.DeliveryStatuses) {
		return ValidationError("Delivery status must be one of: %s", strings.Join(models.DeliveryStatuses, ", "))
	}
	return nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status, deliveryStatus string) (*models.Order, error) {
	if err := validateStatuses(status, deliveryStatus); err != nil {
		return nil, err
	}
	order, err := s.orders.UpdateOrderStatus(ctx, id, status, deliveryStatus)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("Order not found")
		}
		return nil, InternalError("Error updating order status", err)
	}
	s.log.Info("Order status updated", "order_id", id, "status", order.Status, "delivery_status", order.DeliveryStatus)
	return order, nil
}

// BulkUpdateStatus returns how many orders actually changed.
func (s *OrderService) BulkUpdateStatus(ctx context.Context, ids []uint, status, deliveryStatus string) (int64, error) {
	if len(ids) == 0 {
		return 0, ValidationError("Order IDs array is required")
	}
	if err := validateStatuses(status, deliveryStatus); err != nil {
		return 0, err
	}
	modified, err := s.orders.BulkUpdateOrderStatus(ctx, ids, status, deliveryStatus)
	if err != nil {
		return 0, InternalError("Error bulk updating orders", err)
	}
	s.log.Info("Orders bulk updated", "requested", len(ids), "modified", modified)
	return modified, nil
}
