package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInsufficientStock = errors.New("insufficient stock quantity")
)

type ProductStatus string

const (
	Available   ProductStatus = "available"
	Unavailable ProductStatus = "unavailable"
	Archived    ProductStatus = "archived"
)

type Product struct {
	ID            uuid.UUID     `json:"id"`
	CategoryID    uuid.UUID     `json:"category_id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	SKU           string        `json:"sku"`
	UnitPrice     int64         `json:"unit_price"` // minor currency units
	StockQuantity int           `json:"stock_quantity"`
	ImageRef      string        `json:"image_ref,omitempty"`
	Status        ProductStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type ProductRepository interface {
	NextID() (uuid.UUID, error)
	Create(product *Product) error
	Update(product *Product) error
	Find(id uuid.UUID) (*Product, error)
	List(categoryID *uuid.UUID) ([]Product, error)
	ListCategories() ([]Category, error)
}
