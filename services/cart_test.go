package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderPolicy = ThresholdWaivedFee{Amount: 150, Threshold: 1000}

func TestCalculateDeliveryThreshold(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		fee      float64
		total    float64
		freeShip bool
	}{
		{name: "below threshold", price: 999, fee: 150, total: 1149},
		{name: "at threshold", price: 1000, fee: 150, total: 1150},
		{name: "above threshold", price: 1001, fee: 0, total: 1001, freeShip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := Calculate([]LineItem{{Quantity: 1, UnitPrice: tt.price}}, orderPolicy)
			require.NoError(t, err)

			assert.Equal(t, tt.price, totals.Subtotal)
			assert.Equal(t, tt.fee, totals.DeliveryFee)
			assert.Equal(t, tt.total, totals.TotalAmount)
			assert.Equal(t, tt.freeShip, totals.FreeDeliveryEligible)
		})
	}
}

func TestCalculateLineTotals(t *testing.T) {
	totals, err := Calculate([]LineItem{
		{Quantity: 1, UnitPrice: 200},
		{Quantity: 3, UnitPrice: 10},
	}, orderPolicy)
	require.NoError(t, err)

	require.Len(t, totals.Items, 2)
	assert.Equal(t, 200.0, totals.Items[0].TotalPrice)
	assert.Equal(t, 30.0, totals.Items[1].TotalPrice)
	assert.Equal(t, 230.0, totals.Subtotal)
	assert.Equal(t, 4, totals.ItemCount)
	assert.Equal(t, 380.0, totals.TotalAmount)
}

func TestCalculateIsOrderIndependent(t *testing.T) {
	a := LineItem{Quantity: 2, UnitPrice: 540}
	b := LineItem{Quantity: 1, UnitPrice: 10}

	forward, err := Calculate([]LineItem{a, b}, orderPolicy)
	require.NoError(t, err)
	backward, err := Calculate([]LineItem{b, a}, orderPolicy)
	require.NoError(t, err)

	assert.Equal(t, forward.Subtotal, backward.Subtotal)
	assert.Equal(t, forward.DeliveryFee, backward.DeliveryFee)
	assert.Equal(t, forward.TotalAmount, backward.TotalAmount)
	assert.Equal(t, forward.ItemCount, backward.ItemCount)
}

func TestCalculateExactDecimals(t *testing.T) {
	totals, err := Calculate([]LineItem{
		{Quantity: 1, UnitPrice: 0.1},
		{Quantity: 1, UnitPrice: 0.2},
	}, FlatFee{Amount: 0})
	require.NoError(t, err)

	assert.Equal(t, 0.3, totals.Subtotal)
	assert.Equal(t, 0.3, totals.TotalAmount)
}

func TestCalculateFlatFee(t *testing.T) {
	totals, err := Calculate([]LineItem{{Quantity: 4, UnitPrice: 550}}, FlatFee{Amount: 15})
	require.NoError(t, err)

	assert.Equal(t, 2200.0, totals.Subtotal)
	assert.Equal(t, 15.0, totals.DeliveryFee)
	assert.Equal(t, 2215.0, totals.TotalAmount)
	assert.False(t, totals.FreeDeliveryEligible)
}

func TestCalculateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
	}{
		{name: "empty", items: nil},
		{name: "zero quantity", items: []LineItem{{Quantity: 0, UnitPrice: 10}}},
		{name: "negative quantity", items: []LineItem{{Quantity: -1, UnitPrice: 10}}},
		{name: "negative price", items: []LineItem{{Quantity: 1, UnitPrice: -5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.items, orderPolicy)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}
