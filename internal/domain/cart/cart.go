// Package cart implements the storefront shopping cart: an ordered set of
// product line items, durable across restarts, with derived totals.
package cart

import (
	"log/slog"
	"sync"

	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

// Item is a product snapshot plus the quantity in the cart.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Persister writes the full item set to durable storage.
// Called on every mutation; there is no batching.
type Persister interface {
	SaveCart(items []Item) error
}

// Cart owns the line items. At most one item exists per product id; adding
// an existing id increments its quantity. Totals are always derived from
// the item set, never stored.
//
// Like the session store, mutations never fail: persistence errors are
// logged and the in-memory state still changes.
type Cart struct {
	mu      sync.RWMutex
	items   []Item
	persist Persister
	logger  *slog.Logger
}

// New creates an empty cart.
func New(persist Persister, logger *slog.Logger) *Cart {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cart{
		persist: persist,
		logger:  logger,
	}
}

// Hydrate installs items loaded from durable storage without writing back.
func (c *Cart) Hydrate(items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]Item(nil), items...)
}

// Add inserts the product with quantity 1, or increments the quantity of
// the existing item with the same product id. Item order is preserved; new
// items append.
func (c *Cart) Add(p catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity++
			c.persistLocked()
			return
		}
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
	c.persistLocked()
}

// Update replaces the stored product snapshot for the matching item,
// keeping its quantity and position. Reports whether the id was present;
// an absent id is a no-op and does not persist.
func (c *Cart) Update(p catalog.Product) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Product = p
			c.persistLocked()
			return true
		}
	}
	return false
}

// Remove deletes the item with the given product id. No-op when absent.
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persistLocked()
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persistLocked()
}

// Items returns a copy of the current line items in insertion order.
func (c *Cart) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Item(nil), c.items...)
}

// TotalItems returns the sum of quantities over all items.
func (c *Cart) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice returns the sum of price times quantity over all items.
func (c *Cart) TotalPrice() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0.0
	for _, it := range c.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (c *Cart) persistLocked() {
	if c.persist == nil {
		return
	}
	if err := c.persist.SaveCart(append([]Item(nil), c.items...)); err != nil {
		c.logger.Warn("failed to persist cart", "error", err)
	}
}
