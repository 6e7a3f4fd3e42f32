package services

import "github.com/shopspring/decimal"

// DeliveryFeePolicy decides the delivery fee for a given subtotal.
type DeliveryFeePolicy interface {
	Fee(subtotal decimal.Decimal) decimal.Decimal
	Waived(subtotal decimal.Decimal) bool
}

// FlatFee charges the same fee whatever the subtotal.
type FlatFee struct {
	Amount float64
}

func (f FlatFee) Fee(decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(f.Amount)
}

func (f FlatFee) Waived(decimal.Decimal) bool { return f.Amount == 0 }

// ThresholdWaivedFee charges Amount unless the subtotal is strictly above
// Threshold.
type ThresholdWaivedFee struct {
	Amount    float64
	Threshold float64
}

func (p ThresholdWaivedFee) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if p.Waived(subtotal) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(p.Amount)
}

func (p ThresholdWaivedFee) Waived(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThan(decimal.NewFromFloat(p.Threshold))
}

type LineItem struct {
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type PricedLine struct {
	LineItem
	TotalPrice float64 `json:"totalPrice"`
}

type Totals struct {
	Items                []PricedLine `json:"items"`
	Subtotal             float64      `json:"subtotal"`
	ItemCount            int          `json:"itemCount"`
	DeliveryFee          float64      `json:"deliveryFee"`
	TotalAmount          float64      `json:"totalAmount"`
	FreeDeliveryEligible bool         `json:"freeDeliveryEligible"`
}

// Calculate prices a cart. It has no side effects and the result does not
// depend on the order of items.
func Calculate(items []LineItem, policy DeliveryFeePolicy) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, ValidationError("Items array is required")
	}

	subtotal := decimal.Zero
	itemCount := 0
	priced := make([]PricedLine, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return Totals{}, ValidationError("item %d: quantity must be a positive integer", i+1)
		}
		if item.UnitPrice < 0 {
			return Totals{}, ValidationError("item %d: unit price cannot be negative", i+1)
		}
		lineTotal := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		itemCount += item.Quantity
		priced = append(priced, PricedLine{LineItem: item, TotalPrice: lineTotal.InexactFloat64()})
	}

	fee := policy.Fee(subtotal)
	return Totals{
		Items:                priced,
		Subtotal:             subtotal.InexactFloat64(),
		ItemCount:            itemCount,
		DeliveryFee:          fee.InexactFloat64(),
		TotalAmount:          subtotal.Add(fee).InexactFloat64(),
		FreeDeliveryEligible: policy.Waived(subtotal),
	}, nil
}
