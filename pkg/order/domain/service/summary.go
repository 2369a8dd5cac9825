package service

import (
	"github.com/yutosuda/EC-sub001/pkg/order/domain/model"
)

// Pricing policy constants, in minor currency units.
const (
	TaxRatePercent            = 10
	FreeShippingThreshold     = 10000
	ShippingFeeBelowThreshold = 1000
)

// CalculateOrderSummary derives subtotal, tax, shipping fee and total from an
// item sequence. It is a pure function so the same computation serves both the
// pre-checkout estimate and order persistence.
//
// Tax is floored, shipping is free from FreeShippingThreshold upwards.
func CalculateOrderSummary(items []model.OrderItem) model.OrderSummary {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Subtotal
	}

	taxAmount := subtotal * TaxRatePercent / 100

	var shippingFee int64
	if subtotal < FreeShippingThreshold {
		shippingFee = ShippingFeeBelowThreshold
	}

	return model.OrderSummary{
		Subtotal:    subtotal,
		TaxAmount:   taxAmount,
		ShippingFee: shippingFee,
		TotalAmount: subtotal + taxAmount + shippingFee,
	}
}
