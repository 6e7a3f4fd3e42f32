package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Kariqs/puffvibe-api/logger"
	"github.com/Kariqs/puffvibe-api/models"
	"github.com/Kariqs/puffvibe-api/notifications"
	"github.com/Kariqs/puffvibe-api/repositories"
	"gorm.io/datatypes"
)

const (
	DefaultSimpleDeliveryFee = 15
	EstimatedDeliveryWindow  = 30 * time.Minute
	EstimatedDeliveryLabel   = "20-30 minutes"
)

// OrderSink stores orders taken through the unauthenticated intake path.
type OrderSink interface {
	Save(ctx context.Context, order *models.SimpleOrder) error
	Find(ctx context.Context, orderID string) (*models.SimpleOrder, error)
	List(ctx context.Context) ([]models.SimpleOrder, error)
}

type SimpleOrderInput struct {
	CustomerName     string                  `json:"customerName"`
	CustomerPhone    string                  `json:"customerPhone"`
	DeliveryLocation string                  `json:"deliveryLocation"`
	SpecificAddress  string                  `json:"specificAddress"`
	PaymentMethod    string                  `json:"paymentMethod"`
	OrderNotes       string                  `json:"orderNotes"`
	Cart             []models.SimpleCartItem `json:"cart"`
	Subtotal         float64                 `json:"subtotal"`
	DeliveryFee      float64                 `json:"deliveryFee"`
	GrandTotal       float64                 `json:"grandTotal"`
}

type SimpleOrderService struct {
	sink     OrderSink
	policy   DeliveryFeePolicy
	notifier notifications.Notifier
	log      *logger.Logger
	now      func() time.Time

	mu     sync.Mutex
	lastID int64
}

func NewSimpleOrderService(sink OrderSink, policy DeliveryFeePolicy, notifier notifications.Notifier, log *logger.Logger) *SimpleOrderService {
	if notifier == nil {
		notifier = notifications.Nop{}
	}
	return &SimpleOrderService{
		sink:     sink,
		policy:   policy,
		notifier: notifier,
		log:      log.WithComponent("simple_order_service"),
		now:      time.Now,
	}
}

// nextOrderID returns "PV" followed by a millisecond timestamp, bumped so
// that ids never repeat within the process.
func (s *SimpleOrderService) nextOrderID(at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	millis := at.UnixMilli()
	if millis <= s.lastID {
		millis = s.lastID + 1
	}
	s.lastID = millis
	return "PV" + strconv.FormatInt(millis, 10)
}

func (s *SimpleOrderService) Submit(ctx context.Context, input SimpleOrderInput) (*models.SimpleOrder, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	input.DeliveryLocation = strings.TrimSpace(input.DeliveryLocation)

	var missing []string
	if input.CustomerName == "" {
		missing = append(missing, "customerName")
	}
	if input.CustomerPhone == "" {
		missing = append(missing, "customerPhone")
	}
	if input.DeliveryLocation == "" {
		missing = append(missing, "deliveryLocation")
	}
	if input.PaymentMethod == "" {
		missing = append(missing, "paymentMethod")
	}
	if len(missing) > 0 {
		return nil, ValidationError("Missing required fields: %s", strings.Join(missing, ", "))
	}
	if !models.IsOneOf(input.PaymentMethod, models.PaymentMethods) {
		return nil, ValidationError("Payment method must be one of: %s", strings.Join(models.PaymentMethods, ", "))
	}
	if len(input.Cart) == 0 {
		return nil, ValidationError("Cart cannot be empty")
	}

	lines := make([]LineItem, len(input.Cart))
	for i := range input.Cart {
		if input.Cart[i].Quantity == 0 {
			input.Cart[i].Quantity = 1
		}
		lines[i] = LineItem{Quantity: input.Cart[i].Quantity, UnitPrice: input.Cart[i].Price}
	}
	totals, err := Calculate(lines, s.policy)
	if err != nil {
		return nil, err
	}
	if input.GrandTotal != 0 && math.Abs(input.GrandTotal-totals.TotalAmount) > 0.005 {
		s.log.Warn("Client total differs from computed total",
			"client_total", input.GrandTotal,
			"computed_total", totals.TotalAmount,
		)
	}

	cart, err := json.Marshal(input.Cart)
	if err != nil {
		return nil, InternalError("Error processing order", err)
	}

	now := s.now()
	order := &models.SimpleOrder{
		OrderID:           s.nextOrderID(now),
		CustomerName:      input.CustomerName,
		CustomerPhone:     input.CustomerPhone,
		DeliveryLocation:  input.DeliveryLocation,
		SpecificAddress:   strings.TrimSpace(input.SpecificAddress),
		PaymentMethod:     input.PaymentMethod,
		OrderNotes:        input.OrderNotes,
		Cart:              datatypes.JSON(cart),
		Subtotal:          totals.Subtotal,
		DeliveryFee:       totals.DeliveryFee,
		GrandTotal:        totals.TotalAmount,
		ClientSubtotal:    input.Subtotal,
		ClientDeliveryFee: input.DeliveryFee,
		ClientGrandTotal:  input.GrandTotal,
		Status:            models.OrderStatusPending,
		CreatedAt:         now,
		EstimatedDelivery: now.Add(EstimatedDeliveryWindow),
	}
	if err := s.sink.Save(ctx, order); err != nil {
		s.log.Error("Failed to store simple order", "error", err)
		return nil, InternalError("Error processing order", err)
	}

	s.log.Info("Simple order received",
		"order_id", order.OrderID,
		"customer", order.CustomerName,
		"location", order.DeliveryLocation,
		"total", order.GrandTotal,
	)
	go s.notify(*order, input.Cart)
	return order, nil
}

func (s *SimpleOrderService) notify(order models.SimpleOrder, cart []models.SimpleCartItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	address := order.DeliveryLocation
	if order.SpecificAddress != "" {
		address += ", " + order.SpecificAddress
	}
	event := notifications.OrderEvent{
		Type:            notifications.EventSimpleOrderReceived,
		Reference:       order.OrderID,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		DeliveryAddress: address,
		PaymentMethod:   order.PaymentMethod,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.GrandTotal,
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range cart {
		event.Items = append(event.Items, notifications.EventItem{
			Name:        item.Name,
			PricingTier: item.PricingTier,
			Quantity:    item.Quantity,
			TotalPrice:  item.Price * float64(item.Quantity),
		})
	}
	if err := s.notifier.NotifyOrder(ctx, event); err != nil {
		s.log.Warn("Simple order notification failed", "order_id", order.OrderID, "error", err)
	}
}

func (s *SimpleOrderService) Status(ctx context.Context, orderID string) (*models.SimpleOrder, error) {
	order, err := s.sink.Find(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NotFoundError("Order not found")
		}
		return nil, InternalError("Error fetching order status", err)
	}
	return order, nil
}

func (s *SimpleOrderService) All(ctx context.Context) ([]models.SimpleOrder, error) {
	orders, err := s.sink.List(ctx)
	if err != nil {
		return nil, InternalError("Error fetching orders", err)
	}
	return orders, nil
}
