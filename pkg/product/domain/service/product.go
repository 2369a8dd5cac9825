package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yutosuda/EC-sub001/pkg/event"
	"github.com/yutosuda/EC-sub001/pkg/product/domain/model"
)

var (
	ErrInvalidStockQuantity = errors.New("stock quantity must be a positive number")
	ErrNegativePrice        = errors.New("product price cannot be negative")
	ErrProductNotAvailable  = errors.New("operation cannot be performed on an unavailable or archived product")
)

type ProductService interface {
	CreateProduct(categoryID uuid.UUID, name, description, sku string, unitPrice int64, initialStock int) (*model.Product, error)
	ChangeProductPrice(productID uuid.UUID, newUnitPrice int64) error
	ReceiveStock(productID uuid.UUID, quantity int) error
	ReserveStock(productID uuid.UUID, quantity int) error
	ArchiveProduct(productID uuid.UUID) error

	GetProduct(productID uuid.UUID) (*model.Product, error)
	ListProducts(categoryID *uuid.UUID) ([]model.Product, error)
	ListCategories() ([]model.Category, error)
}

func NewProductService(repo model.ProductRepository, dispatcher event.Dispatcher) ProductService {
	return &productService{repo: repo, dispatcher: dispatcher}
}

type productService struct {
	repo       model.ProductRepository
	dispatcher event.Dispatcher
}

func (s *productService) CreateProduct(categoryID uuid.UUID, name, description, sku string, unitPrice int64, initialStock int) (*model.Product, error) {
	if unitPrice < 0 {
		return nil, ErrNegativePrice
	}
	if initialStock < 0 {
		return nil, ErrInvalidStockQuantity
	}

	productID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:            productID,
		CategoryID:    categoryID,
		Name:          name,
		Description:   description,
		SKU:           sku,
		UnitPrice:     unitPrice,
		StockQuantity: initialStock,
		Status:        model.Available,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.ProductCreated{ProductID: productID, Name: name})
	return product, nil
}

func (s *productService) ChangeProductPrice(productID uuid.UUID, newUnitPrice int64) error {
	if newUnitPrice < 0 {
		return ErrNegativePrice
	}

	product, err := s.repo.Find(productID)
	if err != nil {
		return err
	}
	if product.Status == model.Archived {
		return ErrProductNotAvailable
	}

	oldUnitPrice := product.UnitPrice
	product.UnitPrice = newUnitPrice

	if err := s.updateProduct(product); err != nil {
		return err
	}

	_ = s.dispatcher.Dispatch(model.ProductPriceChanged{
		ProductID:    productID,
		OldUnitPrice: oldUnitPrice,
		NewUnitPrice: newUnitPrice,
	})
	return nil
}

func (s *productService) ReceiveStock(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidStockQuantity
	}
	return s.changeStock(productID, quantity)
}

func (s *productService) ReserveStock(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidStockQuantity
	}
	return s.changeStock(productID, -quantity)
}

func (s *productService) ArchiveProduct(productID uuid.UUID) error {
	product, err := s.repo.Find(productID)
	if err != nil {
		return err
	}
	if product.Status == model.Archived {
		return nil
	}

	product.Status = model.Archived

	if err := s.updateProduct(product); err != nil {
		return err
	}

	_ = s.dispatcher.Dispatch(model.ProductArchived{ProductID: productID})
	return nil
}

func (s *productService) GetProduct(productID uuid.UUID) (*model.Product, error) {
	return s.repo.Find(productID)
}

func (s *productService) ListProducts(categoryID *uuid.UUID) ([]model.Product, error) {
	return s.repo.List(categoryID)
}

func (s *productService) ListCategories() ([]model.Category, error) {
	return s.repo.ListCategories()
}

func (s *productService) changeStock(productID uuid.UUID, amount int) error {
	product, err := s.repo.Find(productID)
	if err != nil {
		return err
	}
	if product.Status != model.Available {
		return ErrProductNotAvailable
	}
	if product.StockQuantity+amount < 0 {
		return model.ErrInsufficientStock
	}

	product.StockQuantity += amount

	if err := s.updateProduct(product); err != nil {
		return err
	}

	_ = s.dispatcher.Dispatch(model.ProductStockChanged{
		ProductID:    productID,
		ChangeAmount: amount,
		NewQuantity:  product.StockQuantity,
	})
	return nil
}

func (s *productService) updateProduct(product *model.Product) error {
	product.UpdatedAt = time.Now().UTC()
	return s.repo.Update(product)
}
