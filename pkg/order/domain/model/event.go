package model

import "github.com/google/uuid"

type OrderPlaced struct {
	OrderID     uuid.UUID
	UserID      uuid.UUID
	TotalAmount int64
}

func (e OrderPlaced) Type() string { return "OrderPlaced" }

type OrderCancelled struct {
	OrderID uuid.UUID
	UserID  uuid.UUID
}

func (e OrderCancelled) Type() string { return "OrderCancelled" }

type OrderStatusChanged struct {
	OrderID   uuid.UUID
	OldStatus OrderStatus
	NewStatus OrderStatus
}

func (e OrderStatusChanged) Type() string { return "OrderStatusChanged" }
