// Package book holds the price-level data structures shared by both sides
// of the order book: the FIFO Level queue, the incremental metadata Cache
// that backs fill-feasibility checks, and the price-indexed Side container
// built on github.com/tidwall/btree.
package book

import (
	"container/list"

	"github.com/saiputravu/orderbook-engine/internal/common"
)

// Level is the FIFO queue of orders resting at one price on one side.
// Positions handed out by PushBack remain valid under insertion at the
// tail and removal of arbitrary elements elsewhere in the list, so a
// caller can hold one across unrelated mutations of the same Level -
// exactly the stability the order index needs for O(1) cancel.
type Level struct {
	price  common.Price
	orders *list.List
}

// NewLevel constructs an empty Level at price.
func NewLevel(price common.Price) *Level {
	return &Level{price: price, orders: list.New()}
}

func (l *Level) Price() common.Price { return l.price }
func (l *Level) Empty() bool         { return l.orders.Len() == 0 }
func (l *Level) Len() int            { return l.orders.Len() }

// PushBack admits order at the tail of the level, returning a stable
// position handle for later removal.
func (l *Level) PushBack(order *common.Order) *list.Element {
	return l.orders.PushBack(order)
}

// Remove erases the order at pos. pos must have been returned by this
// same Level's PushBack.
func (l *Level) Remove(pos *list.Element) {
	l.orders.Remove(pos)
}

// Front returns the earliest-arrived resting order, or nil if the level is
// empty.
func (l *Level) Front() *common.Order {
	if e := l.orders.Front(); e != nil {
		return e.Value.(*common.Order)
	}
	return nil
}

// PopFront removes and returns the earliest-arrived resting order, or nil
// if the level is empty. Used by the matching loop once a maker order is
// fully filled and must leave its level.
func (l *Level) PopFront() *common.Order {
	e := l.orders.Front()
	if e == nil {
		return nil
	}
	l.orders.Remove(e)
	return e.Value.(*common.Order)
}

// Orders returns the level's resting orders in arrival order. The engine
// does not call it; the hot matching loop works through Front/PopFront.
func (l *Level) Orders() []*common.Order {
	orders := make([]*common.Order, 0, l.orders.Len())
	for e := l.orders.Front(); e != nil; e = e.Next() {
		orders = append(orders, e.Value.(*common.Order))
	}
	return orders
}
