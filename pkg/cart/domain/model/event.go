package model

import "github.com/google/uuid"

type CartHydrated struct {
	Key       string
	ItemCount int
}

func (e CartHydrated) Type() string { return "CartHydrated" }

type ItemAddedToCart struct {
	ProductID uuid.UUID
	Quantity  int
}

func (e ItemAddedToCart) Type() string { return "ItemAddedToCart" }

type ItemRemovedFromCart struct {
	ProductID uuid.UUID
}

func (e ItemRemovedFromCart) Type() string { return "ItemRemovedFromCart" }

type CartQuantityChanged struct {
	ProductID uuid.UUID
	Quantity  int
}

func (e CartQuantityChanged) Type() string { return "CartQuantityChanged" }

type CartCleared struct {
	Key string
}

func (e CartCleared) Type() string { return "CartCleared" }
