package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yutosuda/EC-sub001/pkg/order/domain/model"
	"github.com/yutosuda/EC-sub001/pkg/order/domain/service"
)

func TestCalculateOrderSummary(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.OrderItem
		expected model.OrderSummary
	}{
		{
			name:  "below free shipping threshold",
			items: []model.OrderItem{{Subtotal: 5000}},
			expected: model.OrderSummary{
				Subtotal:    5000,
				TaxAmount:   500,
				ShippingFee: 1000,
				TotalAmount: 6500,
			},
		},
		{
			name:  "at free shipping threshold",
			items: []model.OrderItem{{Subtotal: 10000}},
			expected: model.OrderSummary{
				Subtotal:    10000,
				TaxAmount:   1000,
				ShippingFee: 0,
				TotalAmount: 11000,
			},
		},
		{
			name:  "just below free shipping threshold",
			items: []model.OrderItem{{Subtotal: 9999}},
			expected: model.OrderSummary{
				Subtotal:    9999,
				TaxAmount:   999,
				ShippingFee: 1000,
				TotalAmount: 11998,
			},
		},
		{
			name:  "tax is floored",
			items: []model.OrderItem{{Subtotal: 55}},
			expected: model.OrderSummary{
				Subtotal:    55,
				TaxAmount:   5,
				ShippingFee: 1000,
				TotalAmount: 1060,
			},
		},
		{
			name:  "sums multiple items",
			items: []model.OrderItem{{Subtotal: 4000}, {Subtotal: 6000}},
			expected: model.OrderSummary{
				Subtotal:    10000,
				TaxAmount:   1000,
				ShippingFee: 0,
				TotalAmount: 11000,
			},
		},
		{
			name:  "empty item sequence",
			items: nil,
			expected: model.OrderSummary{
				Subtotal:    0,
				TaxAmount:   0,
				ShippingFee: 1000,
				TotalAmount: 1000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.CalculateOrderSummary(tt.items))
		})
	}
}

func TestCalculateOrderSummaryIsPure(t *testing.T) {
	items := []model.OrderItem{{Subtotal: 5000}}

	first := service.CalculateOrderSummary(items)
	second := service.CalculateOrderSummary(items)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(5000), items[0].Subtotal, "input is not mutated")
}
