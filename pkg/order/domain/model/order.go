package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled in its current status")
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCreditCard       PaymentMethod = "credit_card"
	PaymentBankTransfer     PaymentMethod = "bank_transfer"
	PaymentConvenienceStore PaymentMethod = "convenience_store"
	PaymentCashOnDelivery   PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentBankTransfer, PaymentConvenienceStore, PaymentCashOnDelivery:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type AddressKind string

const (
	AddressShipping AddressKind = "shipping"
	AddressBilling  AddressKind = "billing"
)

type Address struct {
	Kind       AddressKind `json:"kind"`
	PostalCode string      `json:"postal_code"`
	Region     string      `json:"region"`
	City       string      `json:"city"`
	Line1      string      `json:"line1"`
	Line2      string      `json:"line2,omitempty"`
	IsDefault  bool        `json:"is_default"`
}

type OrderItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"` // minor currency units
	Subtotal    int64     `json:"subtotal"`
}

type Order struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user_id"`
	Items           []OrderItem   `json:"items"`
	ShippingAddress Address       `json:"shipping_address"`
	BillingAddress  *Address      `json:"billing_address,omitempty"`
	TotalAmount     int64         `json:"total_amount"`
	Status          OrderStatus   `json:"status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OrderDraft is an order payload without server-assigned identifier, user or
// timestamps, submitted for creation.
type OrderDraft struct {
	Items           []OrderItem   `json:"items"`
	ShippingAddress Address       `json:"shipping_address"`
	BillingAddress  *Address      `json:"billing_address,omitempty"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
}

// OrderSummary is derived from an item sequence and never stored.
type OrderSummary struct {
	Subtotal    int64 `json:"subtotal"`
	TaxAmount   int64 `json:"tax_amount"`
	ShippingFee int64 `json:"shipping_fee"`
	TotalAmount int64 `json:"total_amount"`
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	Create(order *Order) error
	Update(order *Order) error
	Find(id uuid.UUID) (*Order, error)
	FindByUser(userID uuid.UUID) ([]Order, error)
}

// OrderGateway is the remote order API as seen from the storefront client.
type OrderGateway interface {
	FetchOrders(ctx context.Context) ([]Order, error)
	FetchOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	CreateOrder(ctx context.Context, draft OrderDraft) (*Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*Order, error)
}
