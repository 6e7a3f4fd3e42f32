package models

import "gorm.io/gorm"

const (
	PaymentMpesa = "mpesa"
	PaymentCash  = "cash"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"

	DeliveryStatusPending    = "pending"
	DeliveryStatusDispatched = "dispatched"
	DeliveryStatusDelivered  = "delivered"

	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

var (
	PaymentMethods   = []string{PaymentMpesa, PaymentCash}
	OrderStatuses    = []string{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	DeliveryStatuses = []string{DeliveryStatusPending, DeliveryStatusDispatched, DeliveryStatusDelivered}
)

type Order struct {
	gorm.Model
	UserID          uint        `json:"userId" gorm:"index"`
	User            *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal        float64     `json:"subtotal"`
	DeliveryFee     float64     `json:"deliveryFee"`
	TotalAmount     float64     `json:"totalAmount"`
	PaymentMethod   string      `json:"paymentMethod" gorm:"size:16;index"`
	PaymentStatus   string      `json:"paymentStatus" gorm:"size:16;default:pending"`
	MpesaCode       string      `json:"mpesaCode,omitempty" gorm:"size:32"`
	DeliveryAddress string      `json:"deliveryAddress"`
	DeliveryStatus  string      `json:"deliveryStatus" gorm:"size:16;default:pending"`
	TrackingNumber  string      `json:"trackingNumber" gorm:"size:64"`
	Status          string      `json:"status" gorm:"size:16;default:pending;index"`
}

type OrderItem struct {
	gorm.Model
	OrderID     uint    `json:"orderId" gorm:"index"`
	ProductID   uint    `json:"productId" gorm:"index"`
	ProductName string  `json:"productName"`
	PricingTier string  `json:"pricingTier"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

func IsOneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
