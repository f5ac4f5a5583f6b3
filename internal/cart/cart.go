package cart

import (
	"sync"

	"github.com/amplen/quotation-builder/internal/catalog"
)

const (
	MinQty = 0
	MaxQty = 999
)

// Store persists cart snapshots between sessions.
type Store interface {
	Load() (map[int]int, error)
	Save(items map[int]int) error
}

// Cart maps product ids to selected quantities. A quantity of zero removes
// the entry; zero values are never stored. Every mutation is persisted
// through the attached store. Safe for concurrent use: the cart is mutated
// from net/http handler goroutines.
type Cart struct {
	mu    sync.Mutex
	items map[int]int
	store Store
}

// New returns an empty cart with no persistence.
func New() *Cart {
	return &Cart{items: make(map[int]int)}
}

// Restore builds a cart from the persisted snapshot. A missing or corrupt
// snapshot yields an empty cart rather than an error; the selection is
// scratch state, not a system of record.
func Restore(store Store) *Cart {
	c := New()
	c.store = store
	if store == nil {
		return c
	}
	if saved, err := store.Load(); err == nil {
		for pid, qty := range saved {
			if qty > 0 {
				c.items[pid] = clamp(qty)
			}
		}
	}
	return c
}

func clamp(qty int) int {
	if qty < MinQty {
		return MinQty
	}
	if qty > MaxQty {
		return MaxQty
	}
	return qty
}

// Qty returns the selected quantity for a product, zero if absent.
func (c *Cart) Qty(productID int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[productID]
}

// SetQty clamps qty into 0..999 and stores it. Zero deletes the entry.
func (c *Cart) SetQty(productID, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setQty(productID, qty)
	c.persist()
}

// Add increments a product quantity.
func (c *Cart) Add(productID, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setQty(productID, c.items[productID]+delta)
	c.persist()
}

// AddSection increments every product of a section by delta.
func (c *Cart) AddSection(cat *catalog.Catalog, sectionID string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range cat.SectionProducts(sectionID) {
		c.setQty(p.ID, c.items[p.ID]+delta)
	}
	c.persist()
}

// AddAll increments every catalog product by delta.
func (c *Cart) AddAll(cat *catalog.Catalog, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range cat.Products {
		c.setQty(p.ID, c.items[p.ID]+delta)
	}
	c.persist()
}

// Reset clears the cart wholesale.
func (c *Cart) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[int]int)
	c.persist()
}

// Len is the number of distinct selected products.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns a copy of the selection.
func (c *Cart) Items() map[int]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int]int, len(c.items))
	for pid, qty := range c.items {
		out[pid] = qty
	}
	return out
}

// Replace swaps the whole selection, applying the same clamp/drop rules as
// SetQty, then persists once.
func (c *Cart) Replace(items map[int]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[int]int, len(items))
	for pid, qty := range items {
		if q := clamp(qty); q > 0 {
			c.items[pid] = q
		}
	}
	c.persist()
}

// setQty applies the clamp/drop rules. Callers hold the mutex.
func (c *Cart) setQty(productID, qty int) {
	qty = clamp(qty)
	if qty == 0 {
		delete(c.items, productID)
	} else {
		c.items[productID] = qty
	}
}

// persist flushes the selection. Callers hold the mutex; bulk operations
// flush once, not per entry. Best-effort: a failed write must not block the
// UI flow.
func (c *Cart) persist() {
	if c.store != nil {
		_ = c.store.Save(c.items)
	}
}
