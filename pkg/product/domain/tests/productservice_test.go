package tests

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutosuda/EC-sub001/pkg/event"
	"github.com/yutosuda/EC-sub001/pkg/product/domain/model"
	"github.com/yutosuda/EC-sub001/pkg/product/domain/service"
)

func setup(t *testing.T) (service.ProductService, *mockProductRepository, *mockDispatcher) {
	repo := newMockProductRepository()
	dispatcher := &mockDispatcher{}
	products := service.NewProductService(repo, dispatcher)
	return products, repo, dispatcher
}

func TestCreateProduct(t *testing.T) {
	products, repo, dispatcher := setup(t)
	categoryID := uuid.New()

	product, err := products.CreateProduct(categoryID, "sencha", "green tea", "TEA-001", 1200, 30)

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, model.Available, product.Status)
	assert.Equal(t, categoryID, product.CategoryID)
	assert.Equal(t, 30, product.StockQuantity)

	saved, ok := repo.store[product.ID]
	require.True(t, ok)
	assert.Equal(t, "TEA-001", saved.SKU)

	require.Len(t, dispatcher.events, 1)
	_, ok = dispatcher.events[0].(model.ProductCreated)
	require.True(t, ok)

	t.Run("Negative price", func(t *testing.T) {
		_, err := products.CreateProduct(categoryID, "x", "", "X-1", -1, 1)
		assert.ErrorIs(t, err, service.ErrNegativePrice)
	})

	t.Run("Negative stock", func(t *testing.T) {
		_, err := products.CreateProduct(categoryID, "x", "", "X-2", 1, -1)
		assert.ErrorIs(t, err, service.ErrInvalidStockQuantity)
	})
}

func TestChangeProductPrice(t *testing.T) {
	products, repo, dispatcher := setup(t)
	product, err := products.CreateProduct(uuid.New(), "sencha", "", "TEA-001", 1200, 30)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		dispatcher.Reset()
		require.NoError(t, products.ChangeProductPrice(product.ID, 1500))

		assert.Equal(t, int64(1500), repo.store[product.ID].UnitPrice)

		require.Len(t, dispatcher.events, 1)
		changed, ok := dispatcher.events[0].(model.ProductPriceChanged)
		require.True(t, ok)
		assert.Equal(t, int64(1200), changed.OldUnitPrice)
		assert.Equal(t, int64(1500), changed.NewUnitPrice)
	})

	t.Run("Archived product", func(t *testing.T) {
		require.NoError(t, products.ArchiveProduct(product.ID))
		err := products.ChangeProductPrice(product.ID, 1800)
		assert.ErrorIs(t, err, service.ErrProductNotAvailable)
	})
}

func TestStockChanges(t *testing.T) {
	products, repo, _ := setup(t)
	product, err := products.CreateProduct(uuid.New(), "sencha", "", "TEA-001", 1200, 10)
	require.NoError(t, err)

	require.NoError(t, products.ReceiveStock(product.ID, 5))
	assert.Equal(t, 15, repo.store[product.ID].StockQuantity)

	require.NoError(t, products.ReserveStock(product.ID, 12))
	assert.Equal(t, 3, repo.store[product.ID].StockQuantity)

	t.Run("Insufficient stock", func(t *testing.T) {
		err := products.ReserveStock(product.ID, 4)
		assert.ErrorIs(t, err, model.ErrInsufficientStock)
		assert.Equal(t, 3, repo.store[product.ID].StockQuantity)
	})

	t.Run("Non-positive amounts", func(t *testing.T) {
		assert.ErrorIs(t, products.ReceiveStock(product.ID, 0), service.ErrInvalidStockQuantity)
		assert.ErrorIs(t, products.ReserveStock(product.ID, -1), service.ErrInvalidStockQuantity)
	})
}

func TestArchiveProduct(t *testing.T) {
	products, repo, _ := setup(t)
	product, err := products.CreateProduct(uuid.New(), "sencha", "", "TEA-001", 1200, 10)
	require.NoError(t, err)

	require.NoError(t, products.ArchiveProduct(product.ID))
	assert.Equal(t, model.Archived, repo.store[product.ID].Status)

	require.NoError(t, products.ArchiveProduct(product.ID), "archiving twice is a no-op")

	t.Run("Stock operations rejected", func(t *testing.T) {
		err := products.ReceiveStock(product.ID, 1)
		assert.ErrorIs(t, err, service.ErrProductNotAvailable)
	})
}

func TestListProducts(t *testing.T) {
	products, _, _ := setup(t)
	categoryID := uuid.New()
	_, err := products.CreateProduct(categoryID, "sencha", "", "TEA-001", 1200, 10)
	require.NoError(t, err)
	_, err = products.CreateProduct(uuid.New(), "cup", "", "CUP-001", 800, 5)
	require.NoError(t, err)

	all, err := products.ListProducts(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := products.ListProducts(&categoryID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "TEA-001", filtered[0].SKU)
}

var _ model.ProductRepository = &mockProductRepository{}

type mockProductRepository struct {
	store      map[uuid.UUID]*model.Product
	categories []model.Category
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{store: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockProductRepository) Create(product *model.Product) error {
	if _, exists := m.store[product.ID]; exists {
		return errors.New("product with this ID already exists")
	}
	stored := *product
	m.store[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Update(product *model.Product) error {
	if _, ok := m.store[product.ID]; !ok {
		return model.ErrProductNotFound
	}
	updated := *product
	m.store[product.ID] = &updated
	return nil
}

func (m *mockProductRepository) Find(id uuid.UUID) (*model.Product, error) {
	product, ok := m.store[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *mockProductRepository) List(categoryID *uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	for _, product := range m.store {
		if product.Status == model.Archived {
			continue
		}
		if categoryID != nil && product.CategoryID != *categoryID {
			continue
		}
		products = append(products, *product)
	}
	return products, nil
}

func (m *mockProductRepository) ListCategories() ([]model.Category, error) {
	return m.categories, nil
}

var _ event.Dispatcher = &mockDispatcher{}

type mockDispatcher struct {
	events []event.Event
}

func (m *mockDispatcher) Dispatch(e event.Event) error {
	m.events = append(m.events, e)
	return nil
}

func (m *mockDispatcher) Reset() {
	m.events = nil
}
