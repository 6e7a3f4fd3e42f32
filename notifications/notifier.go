package notifications

import (
	"context"
	"errors"
	"time"
)

const (
	EventOrderCreated        = "order.created"
	EventSimpleOrderReceived = "simple_order.received"
)

type EventItem struct {
	Name        string  `json:"name"`
	PricingTier string  `json:"pricingTier,omitempty"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"totalPrice"`
}

// OrderEvent is what the shop is told about a new order.
type OrderEvent struct {
	Type            string      `json:"type"`
	Reference       string      `json:"reference"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail,omitempty"`
	CustomerPhone   string      `json:"customerPhone"`
	DeliveryAddress string      `json:"deliveryAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	Subtotal        float64     `json:"subtotal"`
	DeliveryFee     float64     `json:"deliveryFee"`
	Total           float64     `json:"total"`
	Items           []EventItem `json:"items"`
	CreatedAt       time.Time   `json:"createdAt"`
}

type Notifier interface {
	NotifyOrder(ctx context.Context, event OrderEvent) error
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyOrder(ctx context.Context, event OrderEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyOrder(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) NotifyOrder(context.Context, OrderEvent) error { return nil }
