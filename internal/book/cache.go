package book

import "github.com/saiputravu/orderbook-engine/internal/common"

// Action identifies which bookkeeping rule Cache.Update should apply.
type Action int

const (
	// Add records a brand new resting order: count and quantity both
	// increase.
	Add Action = iota
	// Remove records an order leaving the book entirely (cancel or full
	// fill): count and quantity both decrease.
	Remove
	// Match records a partial fill: only quantity decreases, the order
	// is still resting.
	Match
)

type levelStat struct {
	quantity common.Quantity
	count    uint32
}

// Cache is the per-price aggregate (total resting quantity, order count)
// maintained incrementally alongside the book so that fill-feasibility
// checks (CanFullyFill) and Snapshot never need to walk a Level's order
// list. One Cache is shared across both sides of the book, since prices
// never collide between bids and asks in practice but the invariant only
// needs "per active price on either side", not per-side isolation.
type Cache struct {
	data map[common.Price]*levelStat
}

func NewCache() *Cache {
	return &Cache{data: make(map[common.Price]*levelStat)}
}

// Update applies action at price for qty units. When a Remove brings the
// order count to zero, the entry is erased entirely.
func (c *Cache) Update(price common.Price, qty common.Quantity, action Action) {
	stat, ok := c.data[price]
	if !ok {
		stat = &levelStat{}
		c.data[price] = stat
	}

	switch action {
	case Add:
		stat.count++
		stat.quantity += qty
	case Remove:
		stat.count--
		stat.quantity -= qty
	case Match:
		stat.quantity -= qty
	}

	if stat.count == 0 {
		delete(c.data, price)
	}
}

// Get returns the aggregate resting quantity and order count at price, and
// whether that price has any live orders at all.
func (c *Cache) Get(price common.Price) (quantity common.Quantity, count uint32, ok bool) {
	stat, ok := c.data[price]
	if !ok {
		return 0, 0, false
	}
	return stat.quantity, stat.count, true
}

// Walk visits every active (price, quantity) pair. Iteration order is
// unspecified - callers needing price order should walk a Side's levels
// instead and consult Get for each one.
func (c *Cache) Walk(fn func(price common.Price, quantity common.Quantity)) {
	for price, stat := range c.data {
		fn(price, stat.quantity)
	}
}
