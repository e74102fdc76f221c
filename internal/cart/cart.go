package cart

import (
	"fmt"
	"sync"
	"time"

	"musiccrib/internal/notify"
	"musiccrib/internal/store"
	"musiccrib/pkg/models"

	"github.com/sirupsen/logrus"
)

// StorageKey is the persistent store key owned by the cart.
const StorageKey = "musicCribCart"

// TaxRate is applied to the subtotal when deriving totals.
const TaxRate = 0.10

// Cart is the ordered list of licensed line items. Order is insertion order;
// duplicates of the same name/price are permitted and distinguished by ID.
// Every mutation is written back to the store.
type Cart struct {
	mu       sync.Mutex
	items    []models.CartItem
	store    store.Store
	notifier *notify.Center
	logger   *logrus.Logger
	lastID   int64
}

// New creates a cart backed by the given store, loading any persisted items.
// A load failure starts the session with an empty cart rather than failing.
func New(st store.Store, notifier *notify.Center, logger *logrus.Logger) *Cart {
	c := &Cart{
		items:    make([]models.CartItem, 0),
		store:    st,
		notifier: notifier,
		logger:   logger,
	}

	var saved []models.CartItem
	found, err := st.Load(StorageKey, &saved)
	if err != nil {
		logger.WithError(err).Warn("Could not load saved cart, starting empty")
	} else if found {
		c.items = saved
		for _, item := range saved {
			if item.ID > c.lastID {
				c.lastID = item.ID
			}
		}
	}

	return c
}

// Add appends a new line item and persists the cart. Name and price are
// trusted here; they were validated upstream by the catalog.
func (c *Cart) Add(name string, price float64) models.CartItem {
	c.mu.Lock()

	item := models.CartItem{
		ID:    c.nextID(),
		Name:  name,
		Price: price,
	}
	c.items = append(c.items, item)
	c.persist()
	count := len(c.items)

	c.mu.Unlock()

	c.notifier.Publish(notify.SeveritySuccess, fmt.Sprintf("✅ %s added to cart!", name))
	c.logger.WithFields(logrus.Fields{
		"item_id": item.ID,
		"name":    name,
		"price":   price,
		"count":   count,
	}).Info("Item added to cart")

	return item
}

// Remove deletes the item with the given ID if present and persists. Removing
// an absent ID is a no-op.
func (c *Cart) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist()
			c.logger.WithField("item_id", id).Info("Item removed from cart")
			return
		}
	}
}

// Items returns a copy of the current line items in insertion order.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Len returns the number of line items (the cart badge count).
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Totals derives subtotal, tax and total from the current contents. Amounts
// stay unrounded; display rounding belongs to models.Totals formatting.
func (c *Cart) Totals() models.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	var subtotal float64
	for _, item := range c.items {
		subtotal += item.Price
	}
	tax := subtotal * TaxRate

	return models.Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// Clear empties the cart and persists the empty state. Called after a
// completed checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = c.items[:0]
	c.persist()
	c.logger.Info("Cart cleared")
}

// nextID returns a fresh unix-millisecond ID, bumping past the previous one
// when two additions land in the same millisecond. Must be called with the
// lock held.
func (c *Cart) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}

// persist writes the current items back to the store. A write failure is
// surfaced as a warning; the in-memory cart stays authoritative for the rest
// of the session. Must be called with the lock held.
func (c *Cart) persist() {
	if err := c.store.Save(StorageKey, c.items); err != nil {
		c.logger.WithError(err).Error("Failed to persist cart")
		c.notifier.Publish(notify.SeverityWarning, "Could not save your cart. Changes will be kept for this session only.")
	}
}
