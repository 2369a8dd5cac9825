package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yutosuda/EC-sub001/pkg/event"
	"github.com/yutosuda/EC-sub001/pkg/order/domain/model"
)

// OrderStore is the storefront-side state container over the remote order
// API: a read cache of the user's orders, the most recently fetched or created
// order, a loading flag and a single clearable latest-error slot.
//
// Fetch and cancel failures are recovered locally: the cache keeps its
// last-known-good content and only LastError changes. CreateOrder is the one
// operation that also returns its error, because a failed checkout must
// interrupt the caller instead of being absorbed into display state.
//
// The loading flag is shared across operations and is last-writer-wins when
// calls overlap. Cache updates are guarded by a fetch generation counter, so
// a stale FetchOrders response never clobbers a newer one.
type OrderStore interface {
	FetchOrders(ctx context.Context)
	FetchOrderByID(ctx context.Context, orderID uuid.UUID)
	CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID)

	Orders() []model.Order
	CurrentOrder() *model.Order
	IsLoading() bool
	LastError() string
	ClearError()
}

func NewOrderStore(gateway model.OrderGateway, dispatcher event.Dispatcher) OrderStore {
	return &orderStore{gateway: gateway, dispatcher: dispatcher}
}

type orderStore struct {
	mu         sync.Mutex
	gateway    model.OrderGateway
	dispatcher event.Dispatcher

	orders    []model.Order
	current   *model.Order
	loading   bool
	lastError string
	fetchGen  uint64
}

// FetchOrders replaces the cache wholesale on success. On failure the
// previous cache stays intact and only LastError is set.
func (s *orderStore) FetchOrders(ctx context.Context) {
	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	orders, err := s.gateway.FetchOrders(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return
	}
	if gen != s.fetchGen {
		// a newer fetch started while this response was in flight
		return
	}
	s.orders = orders
}

// FetchOrderByID sets the current order on success and never alters the list
// cache.
func (s *orderStore) FetchOrderByID(ctx context.Context, orderID uuid.UUID) {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	order, err := s.gateway.FetchOrder(ctx, orderID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return
	}
	s.setCurrent(order)
}

// CreateOrder submits the draft. On success the server-returned order is
// appended to the cache, becomes the current order and is returned. On
// failure LastError is set and the error is returned to the caller.
func (s *orderStore) CreateOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	if len(draft.Items) == 0 {
		s.mu.Lock()
		s.lastError = ErrOrderIsEmpty.Error()
		s.mu.Unlock()
		return nil, ErrOrderIsEmpty
	}

	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	order, err := s.gateway.CreateOrder(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return nil, err
	}

	s.orders = append(s.orders, *order)
	s.setCurrent(order)

	_ = s.dispatcher.Dispatch(model.OrderPlaced{OrderID: order.ID, UserID: order.UserID, TotalAmount: order.TotalAmount})
	return order, nil
}

// CancelOrder asks the server to cancel. No local status changes until the
// server confirms: on success the matching cache entry (and the current
// order, if it is the same one) is replaced with the server's copy; on
// failure only LastError is set.
func (s *orderStore) CancelOrder(ctx context.Context, orderID uuid.UUID) {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	order, err := s.gateway.CancelOrder(ctx, orderID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
		return
	}

	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			s.orders[i] = *order
			break
		}
	}
	if s.current != nil && s.current.ID == order.ID {
		s.setCurrent(order)
	}

	_ = s.dispatcher.Dispatch(model.OrderCancelled{OrderID: order.ID, UserID: order.UserID})
}

func (s *orderStore) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := make([]model.Order, len(s.orders))
	copy(orders, s.orders)
	return orders
}

func (s *orderStore) CurrentOrder() *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	current := *s.current
	return &current
}

func (s *orderStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *orderStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *orderStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// setCurrent stores a private copy. Callers must hold s.mu.
func (s *orderStore) setCurrent(order *model.Order) {
	current := *order
	s.current = &current
}
