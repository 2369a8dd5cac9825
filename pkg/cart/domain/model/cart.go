package model

import (
	"context"

	"github.com/google/uuid"
)

// LineItem associates one product with a requested quantity and a snapshot of
// its price and stock at the time it was put in the cart.
type LineItem struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	UnitPrice  int64     `json:"unit_price"` // minor currency units
	ImageRef   string    `json:"image_ref,omitempty"`
	Quantity   int       `json:"quantity"`
	StockLimit int       `json:"stock_limit"`
}

// Subtotal is the line price for the requested quantity.
func (i LineItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// CartStorage is the durable slot a cart is persisted to. An absent value is
// an empty cart, not an error.
type CartStorage interface {
	Load(ctx context.Context, key string) (items []LineItem, found bool, err error)
	Save(ctx context.Context, key string, items []LineItem) error
}
