package models

import (
	"time"

	"gorm.io/datatypes"
)

type SimpleCartItem struct {
	Name        string  `json:"name"`
	PricingTier string  `json:"pricingTier,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// SimpleOrder is an order taken through the unauthenticated intake path.
// Client totals are kept for reference only; Subtotal, DeliveryFee and
// GrandTotal are computed server-side.
type SimpleOrder struct {
	OrderNumber       uint64         `json:"orderNumber" gorm:"primaryKey;autoIncrement"`
	OrderID           string         `json:"orderId" gorm:"size:32;uniqueIndex"`
	CustomerName      string         `json:"customerName"`
	CustomerPhone     string         `json:"customerPhone"`
	DeliveryLocation  string         `json:"deliveryLocation"`
	SpecificAddress   string         `json:"specificAddress"`
	PaymentMethod     string         `json:"paymentMethod"`
	OrderNotes        string         `json:"orderNotes"`
	Cart              datatypes.JSON `json:"cart"`
	Subtotal          float64        `json:"subtotal"`
	DeliveryFee       float64        `json:"deliveryFee"`
	GrandTotal        float64        `json:"grandTotal"`
	ClientSubtotal    float64        `json:"clientSubtotal"`
	ClientDeliveryFee float64        `json:"clientDeliveryFee"`
	ClientGrandTotal  float64        `json:"clientGrandTotal"`
	Status            string         `json:"status"`
	CreatedAt         time.Time      `json:"createdAt"`
	EstimatedDelivery time.Time      `json:"estimatedDelivery"`
}
