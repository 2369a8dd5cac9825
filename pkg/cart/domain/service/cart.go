package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/yutosuda/EC-sub001/pkg/cart/domain/model"
	"github.com/yutosuda/EC-sub001/pkg/event"
)

// Cart is the pre-checkout state container. It owns an in-memory sequence of
// line items keyed by product ID and persists it best-effort to a durable
// storage slot.
//
// The container has a two-phase lifecycle: until Hydrate succeeds it reports
// an empty cart and never touches storage. Mutations clamp quantities into
// [1, stock limit] instead of failing; mutations addressing an absent product
// are no-ops. All operations are serialized, so no torn reads are observable.
type Cart interface {
	Hydrate(ctx context.Context) error
	Hydrated() bool

	AddItem(ctx context.Context, item model.LineItem)
	RemoveItem(ctx context.Context, productID uuid.UUID)
	UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int)
	Clear(ctx context.Context)

	Items() []model.LineItem
	TotalItems() int
	TotalPrice() int64
}

func NewCart(storage model.CartStorage, key string, dispatcher event.Dispatcher) Cart {
	return &cart{
		storage:    storage,
		key:        key,
		dispatcher: dispatcher,
	}
}

type cart struct {
	mu         sync.Mutex
	storage    model.CartStorage
	key        string
	dispatcher event.Dispatcher
	hydrated   bool
	items      []model.LineItem
}

// Hydrate loads the persisted cart. An absent stored value is an empty cart.
// Calling Hydrate on an already hydrated cart is a no-op.
func (c *cart) Hydrate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hydrated {
		return nil
	}

	items, found, err := c.storage.Load(ctx, c.key)
	if err != nil {
		return err
	}
	if found {
		c.items = items
	}
	c.hydrated = true

	_ = c.dispatcher.Dispatch(model.CartHydrated{Key: c.key, ItemCount: len(c.items)})
	return nil
}

func (c *cart) Hydrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrated
}

// AddItem merges the incoming item into the cart. If the product is already
// present, the requested quantity is added on top of the existing one and the
// stock snapshot is refreshed from the incoming item. Over-limit requests
// clamp silently; an item whose stock limit is zero is not added at all.
func (c *cart) AddItem(ctx context.Context, item model.LineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item.StockLimit <= 0 {
		return
	}

	requested := item.Quantity
	if requested < 1 {
		requested = 1
	}

	merged := false
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			item.Quantity = clampQuantity(c.items[i].Quantity+requested, item.StockLimit)
			c.items[i] = item
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = clampQuantity(requested, item.StockLimit)
		c.items = append(c.items, item)
	}

	c.persist(ctx)
	_ = c.dispatcher.Dispatch(model.ItemAddedToCart{ProductID: item.ProductID, Quantity: item.Quantity})
}

// RemoveItem removes the matching entry. Removing an absent product is a
// no-op, not an error.
func (c *cart) RemoveItem(ctx context.Context, productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist(ctx)
			_ = c.dispatcher.Dispatch(model.ItemRemovedFromCart{ProductID: productID})
			return
		}
	}
}

// UpdateQuantity clamps the requested quantity into [1, stock limit] for the
// matching entry. Updating an absent product is a no-op.
func (c *cart) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = clampQuantity(quantity, c.items[i].StockLimit)
			c.persist(ctx)
			_ = c.dispatcher.Dispatch(model.CartQuantityChanged{ProductID: productID, Quantity: c.items[i].Quantity})
			return
		}
	}
}

func (c *cart) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.persist(ctx)
	_ = c.dispatcher.Dispatch(model.CartCleared{Key: c.key})
}

func (c *cart) Items() []model.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]model.LineItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *cart) TotalPrice() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// persist writes the current state to storage. The in-memory state stays
// authoritative: a failed write is logged and never rolls the mutation back.
// Writes are gated on the hydrated phase. Callers must hold c.mu.
func (c *cart) persist(ctx context.Context) {
	if !c.hydrated {
		return
	}
	if err := c.storage.Save(ctx, c.key, c.items); err != nil {
		log.WithFields(log.Fields{"key": c.key, "err": err}).Warn("failed to persist cart state")
	}
}

func clampQuantity(quantity, stockLimit int) int {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > stockLimit {
		quantity = stockLimit
	}
	return quantity
}
