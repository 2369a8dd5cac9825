package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutosuda/EC-sub001/pkg/order/domain/model"
	"github.com/yutosuda/EC-sub001/pkg/order/domain/service"
)

func setupOrderStore(t *testing.T) (service.OrderStore, *mockOrderGateway) {
	gateway := &mockOrderGateway{}
	store := service.NewOrderStore(gateway, &mockDispatcher{})
	return store, gateway
}

func serverOrder(status model.OrderStatus) model.Order {
	return model.Order{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Items:       []model.OrderItem{{ProductID: uuid.New(), Quantity: 1, UnitPrice: 5000, Subtotal: 5000}},
		TotalAmount: 6500,
		Status:      status,
	}
}

func TestFetchOrdersReplacesCache(t *testing.T) {
	store, gateway := setupOrderStore(t)
	first := serverOrder(model.StatusPending)
	second := serverOrder(model.StatusShipped)
	gateway.fetchOrdersFn = func(context.Context) ([]model.Order, error) {
		return []model.Order{first, second}, nil
	}

	store.FetchOrders(context.Background())

	orders := store.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.False(t, store.IsLoading())
	assert.Empty(t, store.LastError())
}

func TestFetchOrdersFailureKeepsCache(t *testing.T) {
	store, gateway := setupOrderStore(t)
	cached := serverOrder(model.StatusPending)
	gateway.fetchOrdersFn = func(context.Context) ([]model.Order, error) {
		return []model.Order{cached}, nil
	}
	store.FetchOrders(context.Background())

	gateway.fetchOrdersFn = func(context.Context) ([]model.Order, error) {
		return nil, errors.New("connection refused")
	}
	store.FetchOrders(context.Background())

	orders := store.Orders()
	require.Len(t, orders, 1, "cache keeps last-known-good content")
	assert.Equal(t, cached.ID, orders[0].ID)
	assert.Contains(t, store.LastError(), "connection refused")
	assert.False(t, store.IsLoading())
}

func TestFetchOrdersDiscardsStaleResponse(t *testing.T) {
	store, gateway := setupOrderStore(t)
	stale := serverOrder(model.StatusPending)
	newer := serverOrder(model.StatusDelivered)

	call := 0
	gateway.fetchOrdersFn = func(ctx context.Context) ([]model.Order, error) {
		call++
		if call == 1 {
			// a second fetch starts and completes while the first response
			// is still in flight
			store.FetchOrders(ctx)
			return []model.Order{stale}, nil
		}
		return []model.Order{newer}, nil
	}

	store.FetchOrders(context.Background())

	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, newer.ID, orders[0].ID, "stale response must not clobber the newer one")
}

func TestFetchOrderByIDSetsCurrentOnly(t *testing.T) {
	store, gateway := setupOrderStore(t)
	listed := serverOrder(model.StatusPending)
	gateway.fetchOrdersFn = func(context.Context) ([]model.Order, error) {
		return []model.Order{listed}, nil
	}
	store.FetchOrders(context.Background())

	fetched := serverOrder(model.StatusShipped)
	gateway.fetchOrderFn = func(context.Context, uuid.UUID) (*model.Order, error) {
		return &fetched, nil
	}
	store.FetchOrderByID(context.Background(), fetched.ID)

	current := store.CurrentOrder()
	require.NotNil(t, current)
	assert.Equal(t, fetched.ID, current.ID)

	orders := store.Orders()
	require.Len(t, orders, 1, "list cache is not altered")
	assert.Equal(t, listed.ID, orders[0].ID)
}

func TestFetchOrderByIDFailure(t *testing.T) {
	store, gateway := setupOrderStore(t)
	gateway.fetchOrderFn = func(context.Context, uuid.UUID) (*model.Order, error) {
		return nil, errors.New("not found")
	}

	store.FetchOrderByID(context.Background(), uuid.New())

	assert.Nil(t, store.CurrentOrder())
	assert.Contains(t, store.LastError(), "not found")
}

func TestCreateOrderSuccess(t *testing.T) {
	store, gateway := setupOrderStore(t)
	created := serverOrder(model.StatusPending)
	gateway.createOrderFn = func(context.Context, model.OrderDraft) (*model.Order, error) {
		return &created, nil
	}

	order, err := store.CreateOrder(context.Background(), model.OrderDraft{
		Items:         created.Items,
		PaymentMethod: model.PaymentCreditCard,
	})

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, created.ID, order.ID)

	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, created.ID, orders[0].ID)

	current := store.CurrentOrder()
	require.NotNil(t, current)
	assert.Equal(t, created.ID, current.ID)
}

func TestCreateOrderFailureLeavesStateUntouched(t *testing.T) {
	store, gateway := setupOrderStore(t)
	cached := serverOrder(model.StatusPending)
	gateway.fetchOrdersFn = func(context.Context) ([]model.Order, error) {
		return []model.Order{cached}, nil
	}
	store.FetchOrders(context.Background())

	gateway.createOrderFn = func(context.Context, model.OrderDraft) (*model.Order, error) {
		return nil, errors.New("payment rejected")
	}

	order, err := store.CreateOrder(context.Background(), model.OrderDraft{
		Items:         cached.Items,
		PaymentMethod: model.PaymentCreditCard,
	})

	require.Error(t, err, "checkout failure must reach the caller")
	assert.Nil(t, order)
	assert.Contains(t, store.LastError(), "payment rejected")

	orders := store.Orders()
	require.Len(t, orders, 1, "cache unchanged")
	assert.Equal(t, cached.ID, orders[0].ID)
	assert.Nil(t, store.CurrentOrder(), "current order unchanged")
}

func TestCreateOrderRejectsEmptyDraft(t *testing.T) {
	store, gateway := setupOrderStore(t)
	gateway.createOrderFn = func(context.Context, model.OrderDraft) (*model.Order, error) {
		t.Fatal("gateway must not be called for an empty draft")
		return nil, nil
	}

	_, err := store.CreateOrder(context.Background(), model.OrderDraft{})

	assert.ErrorIs(t, err, service.ErrOrderIsEmpty)
	assert.Equal(t, service.ErrOrderIsEmpty.Error(), store.LastError())
}

func TestCancelOrderReplacesCacheEntryAndCurrent(t *testing.T) {
	store, gateway := setupOrderStore(t)
	target := serverOrder(model.StatusPending)
	other := serverOrder(model.StatusPending)
	gateway.fetchOrdersFn = func(context.Context) ([]model.Order, error) {
		return []model.Order{other, target}, nil
	}
	store.FetchOrders(context.Background())

	gateway.fetchOrderFn = func(context.Context, uuid.UUID) (*model.Order, error) {
		return &target, nil
	}
	store.FetchOrderByID(context.Background(), target.ID)

	cancelled := target
	cancelled.Status = model.StatusCancelled
	gateway.cancelOrderFn = func(context.Context, uuid.UUID) (*model.Order, error) {
		return &cancelled, nil
	}

	store.CancelOrder(context.Background(), target.ID)

	orders := store.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, model.StatusPending, orders[0].Status, "other entries untouched")
	assert.Equal(t, model.StatusCancelled, orders[1].Status)

	current := store.CurrentOrder()
	require.NotNil(t, current)
	assert.Equal(t, model.StatusCancelled, current.Status, "current order replaced with the server copy")
	assert.Empty(t, store.LastError())
}

func TestCancelOrderFailureMakesNoOptimisticChange(t *testing.T) {
	store, gateway := setupOrderStore(t)
	target := serverOrder(model.StatusPending)
	gateway.fetchOrdersFn = func(context.Context) ([]model.Order, error) {
		return []model.Order{target}, nil
	}
	store.FetchOrders(context.Background())

	gateway.cancelOrderFn = func(context.Context, uuid.UUID) (*model.Order, error) {
		return nil, errors.New("already shipped")
	}

	store.CancelOrder(context.Background(), target.ID)

	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, model.StatusPending, orders[0].Status, "no local status change before server confirmation")
	assert.Contains(t, store.LastError(), "already shipped")
}

func TestClearError(t *testing.T) {
	store, gateway := setupOrderStore(t)
	gateway.fetchOrdersFn = func(context.Context) ([]model.Order, error) {
		return nil, errors.New("boom")
	}
	store.FetchOrders(context.Background())
	require.NotEmpty(t, store.LastError())

	store.ClearError()
	assert.Empty(t, store.LastError())
}

var _ model.OrderGateway = &mockOrderGateway{}

type mockOrderGateway struct {
	fetchOrdersFn func(ctx context.Context) ([]model.Order, error)
	fetchOrderFn  func(ctx context.Context, id uuid.UUID) (*model.Order, error)
	createOrderFn func(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	cancelOrderFn func(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

func (m *mockOrderGateway) FetchOrders(ctx context.Context) ([]model.Order, error) {
	return m.fetchOrdersFn(ctx)
}

func (m *mockOrderGateway) FetchOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return m.fetchOrderFn(ctx, id)
}

func (m *mockOrderGateway) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	return m.createOrderFn(ctx, draft)
}

func (m *mockOrderGateway) CancelOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return m.cancelOrderFn(ctx, id)
}
