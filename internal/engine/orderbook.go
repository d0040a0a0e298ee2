// Package engine is the matching engine: the single-instrument order book
// (OrderBook) that drives admission, the price-time matching loop, and
// order-type semantics, plus the thin multi-instrument Engine that routes
// to one OrderBook per AssetType.
package engine

import (
	"container/list"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saiputravu/orderbook-engine/internal/book"
	"github.com/saiputravu/orderbook-engine/internal/common"
	"github.com/saiputravu/orderbook-engine/internal/pruner"
)

// orderEntry bundles a live order with its level and its stable position
// within that level, giving CancelOrder O(1) access without walking the
// level's list. It is the "order index" component of spec.md §3.
type orderEntry struct {
	order *common.Order
	level *book.Level
	pos   *list.Element
}

// OrderBook is the matching engine for a single instrument: the bid/ask
// book, the price-time matching loop, and the full taxonomy of
// order-type behavior. A single mutex serializes every mutation and read
// per spec.md §5 - there is no lock-free fast path.
//
// OrderBook must only be constructed via New and used through a pointer;
// it embeds a sync.Mutex and owns a live pruning goroutine, so copying one
// (go vet's copylocks check will flag this) would alias that mutex and
// leak the goroutine's supervision.
type OrderBook struct {
	mu sync.Mutex

	bids  *book.Side
	asks  *book.Side
	cache *book.Cache

	orders map[common.OrderId]orderEntry

	logger         zerolog.Logger
	pruneHour      int
	pruneMinute    int
	prunerDisabled bool
	pruner         *pruner.Pruner
}

// New constructs an empty OrderBook. Unless WithoutDayPruner is passed, a
// background goroutine starts immediately, pruning GoodForDay orders at
// the configured (default 16:00) local wall-clock boundary.
func New(opts ...Option) *OrderBook {
	b := &OrderBook{
		bids:        book.NewBidSide(),
		asks:        book.NewAskSide(),
		cache:       book.NewCache(),
		orders:      make(map[common.OrderId]orderEntry),
		logger:      zerolog.Nop(),
		pruneHour:   16,
		pruneMinute: 0,
	}
	for _, opt := range opts {
		opt(b)
	}
	if !b.prunerDisabled {
		b.pruner = pruner.New(b, b.pruneHour, b.pruneMinute, b.logger)
		b.pruner.Start()
	}
	return b
}

// Close stops the day-pruner goroutine and waits for it to exit. Safe to
// call on a book built with WithoutDayPruner (a no-op in that case).
func (b *OrderBook) Close() error {
	if b.pruner == nil {
		return nil
	}
	return b.pruner.Stop()
}

// AddOrder admits order to the book and runs the matching loop, returning
// whatever trades result. Rejections (duplicate id, a Market order with no
// opposite liquidity, a FillAndKill with nothing to match, a FillOrKill
// that can't be filled in full) return a nil slice and leave the book
// untouched - these are expected client-input outcomes per spec.md §7, not
// errors.
func (b *OrderBook) AddOrder(order *common.Order) []common.Trade {
	corrID := uuid.New().String()

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.orders[order.ID()]; exists {
		b.logger.Debug().
			Str("corrId", corrID).
			Uint64("orderId", uint64(order.ID())).
			Msg("rejected: duplicate order id")
		return nil
	}

	// Market order rewrite is done in place so that, once admitted, it is
	// indistinguishable from a GoodTillCancel - this drops a branch from
	// the hot matching loop at the cost of losing the "was a market
	// order" label (spec.md §4.1, §9).
	if order.Type() == common.Market {
		var worst *book.Level
		var ok bool
		switch order.Side() {
		case common.Buy:
			worst, ok = b.asks.Worst()
		case common.Sell:
			worst, ok = b.bids.Worst()
		}
		if !ok {
			b.logger.Debug().Str("corrId", corrID).Msg("rejected: market order against empty opposite side")
			return nil
		}
		order.RewriteToGoodTillCancel(worst.Price())
	}

	price := order.MustPrice()

	if order.Type() == common.FillAndKill && !b.canMatch(order.Side(), price) {
		b.logger.Debug().Str("corrId", corrID).Msg("rejected: fill-and-kill has no immediate match")
		return nil
	}

	if order.Type() == common.FillOrKill && !b.canFullyFill(order.Side(), price, order.InitialQuantity()) {
		b.logger.Debug().Str("corrId", corrID).Msg("rejected: fill-or-kill cannot be filled in full")
		return nil
	}

	var level *book.Level
	switch order.Side() {
	case common.Buy:
		level = b.bids.EnsureLevel(price)
	case common.Sell:
		level = b.asks.EnsureLevel(price)
	}
	pos := level.PushBack(order)
	b.orders[order.ID()] = orderEntry{order: order, level: level, pos: pos}
	b.onOrderAdded(order)

	trades := b.matchOrders()
	b.logger.Debug().
		Str("corrId", corrID).
		Uint64("orderId", uint64(order.ID())).
		Int("trades", len(trades)).
		Msg("order admitted")
	return trades
}

// CancelOrder removes id from the book. Idempotent: cancelling an unknown
// or already-removed id is a silent no-op.
func (b *OrderBook) CancelOrder(id common.OrderId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelOrderInternal(id)
}

// CancelOrders is the bulk-cancel path: it takes the lock once for the
// whole batch rather than once per id, used by the day-pruner to apply a
// previously-collected set of GoodForDay ids (spec.md §4.5).
func (b *OrderBook) CancelOrders(ids []common.OrderId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		b.cancelOrderInternal(id)
	}
}

// cancelOrderInternal assumes the caller already holds b.mu.
func (b *OrderBook) cancelOrderInternal(id common.OrderId) {
	entry, ok := b.orders[id]
	if !ok {
		return
	}

	entry.level.Remove(entry.pos)
	if entry.level.Empty() {
		switch entry.order.Side() {
		case common.Buy:
			b.bids.DeleteLevel(entry.level.Price())
		case common.Sell:
			b.asks.DeleteLevel(entry.level.Price())
		}
	}

	b.onOrderCancelled(entry.order)
	delete(b.orders, id)
}

// ModifyOrder cancels the existing order (if any) and re-admits a new one
// carrying the modification's side/price/quantity with the preserved
// order type - the modified order loses time priority and goes to the
// tail of its new level.
//
// The read of the existing type, the cancel, and the re-add are three
// separate critical sections, not one atomic operation: between the type
// read below and the cancel, another goroutine could have already matched
// or cancelled this order. Per spec.md §5 and §9 open question (a), that
// race is accepted rather than closed by widening the lock - the cancel
// is a no-op if the id has already vanished, and the re-add proceeds
// using the type observed here.
func (b *OrderBook) ModifyOrder(mod common.OrderModify) []common.Trade {
	b.mu.Lock()
	entry, ok := b.orders[mod.OrderID()]
	var orderType common.OrderType
	if ok {
		orderType = entry.order.Type()
	}
	b.mu.Unlock()

	if !ok {
		return nil
	}

	b.CancelOrder(mod.OrderID())
	return b.AddOrder(mod.ToOrder(orderType))
}

// Size returns the number of live orders currently indexed.
func (b *OrderBook) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders)
}

// Snapshot compiles the book's current bid/ask levels: one LevelInfo per
// active price, bids descending and asks ascending. Counts and quantities
// come from the level-metadata cache, so this costs O(number of levels),
// not O(number of orders).
func (b *OrderBook) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	bidLevels := b.bids.Levels()
	askLevels := b.asks.Levels()

	bids := make([]LevelInfo, 0, len(bidLevels))
	for _, level := range bidLevels {
		qty, count, _ := b.cache.Get(level.Price())
		bids = append(bids, LevelInfo{Price: level.Price(), Quantity: qty, Count: count})
	}

	asks := make([]LevelInfo, 0, len(askLevels))
	for _, level := range askLevels {
		qty, count, _ := b.cache.Get(level.Price())
		asks = append(asks, LevelInfo{Price: level.Price(), Quantity: qty, Count: count})
	}

	return Snapshot{Bids: bids, Asks: asks}
}

// GoodForDayOrderIDs collects, under lock, the ids of every resting
// GoodForDay order. It is the first phase of the day-pruner's two-phase
// scan/cancel: the lock is released before any cancellation happens, so
// the critical section stays bounded and the iteration is never
// invalidated mid-scan.
func (b *OrderBook) GoodForDayOrderIDs() []common.OrderId {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]common.OrderId, 0)
	for id, entry := range b.orders {
		if entry.order.Type() == common.GoodForDay {
			ids = append(ids, id)
		}
	}
	return ids
}

// canMatch reports whether an incoming order on side at price would cross
// at least one resting lot on the opposite side. Cheaper than
// canFullyFill, used for FillAndKill admission.
func (b *OrderBook) canMatch(side common.Side, price common.Price) bool {
	switch side {
	case common.Buy:
		best, ok := b.asks.Best()
		if !ok {
			return false
		}
		return price >= best.Price()
	default:
		best, ok := b.bids.Best()
		if !ok {
			return false
		}
		return price <= best.Price()
	}
}

// canFullyFill reports whether qty units could be filled entirely at price
// or better, walking the level-metadata cache (never the level lists)
// across every price between the best opposite level and price.
func (b *OrderBook) canFullyFill(side common.Side, price common.Price, qty common.Quantity) bool {
	if !b.canMatch(side, price) {
		return false
	}

	var threshold common.Price
	switch side {
	case common.Buy:
		best, _ := b.asks.Best()
		threshold = best.Price()
	default:
		best, _ := b.bids.Best()
		threshold = best.Price()
	}

	var total common.Quantity
	b.cache.Walk(func(levelPrice common.Price, quantity common.Quantity) {
		var inRange bool
		if side == common.Buy {
			inRange = levelPrice >= threshold && levelPrice <= price
		} else {
			inRange = levelPrice <= threshold && levelPrice >= price
		}
		if inRange {
			total += quantity
		}
	})
	return total >= qty
}

// matchOrders consumes crossing levels while the best bid and best ask
// cross, emitting one Trade per fill. Trade emission is deterministic
// price-time order: the earliest-arrived resting order at a level trades
// first, and the recorded price on each side is that resting (maker)
// order's own price, never a derived mid.
func (b *OrderBook) matchOrders() []common.Trade {
	trades := make([]common.Trade, 0, len(b.orders))

	for {
		bidLevel, bidOk := b.bids.Best()
		askLevel, askOk := b.asks.Best()
		if !bidOk || !askOk || bidLevel.Price() < askLevel.Price() {
			break
		}

		for !bidLevel.Empty() && !askLevel.Empty() {
			bidOrder := bidLevel.Front()
			askOrder := askLevel.Front()

			qty := minQuantity(bidOrder.RemainingQuantity(), askOrder.RemainingQuantity())
			bidOrder.Fill(qty)
			askOrder.Fill(qty)

			bidFilled := bidOrder.IsFilled()
			askFilled := askOrder.IsFilled()

			if bidFilled {
				bidLevel.PopFront()
				delete(b.orders, bidOrder.ID())
			}
			if askFilled {
				askLevel.PopFront()
				delete(b.orders, askOrder.ID())
			}

			trades = append(trades, common.Trade{
				Bid: common.TradeInfo{OrderId: bidOrder.ID(), Price: bidOrder.MustPrice(), Quantity: qty},
				Ask: common.TradeInfo{OrderId: askOrder.ID(), Price: askOrder.MustPrice(), Quantity: qty},
			})

			b.onOrderMatched(bidOrder.MustPrice(), qty, bidFilled)
			b.onOrderMatched(askOrder.MustPrice(), qty, askFilled)
		}

		if bidLevel.Empty() {
			b.bids.DeleteLevel(bidLevel.Price())
		}
		if askLevel.Empty() {
			b.asks.DeleteLevel(askLevel.Price())
		}
	}

	if bidLevel, ok := b.bids.Best(); ok {
		if top := bidLevel.Front(); top != nil && top.Type() == common.FillAndKill {
			b.cancelOrderInternal(top.ID())
		}
	}
	if askLevel, ok := b.asks.Best(); ok {
		if top := askLevel.Front(); top != nil && top.Type() == common.FillAndKill {
			b.cancelOrderInternal(top.ID())
		}
	}

	return trades
}

func (b *OrderBook) onOrderAdded(order *common.Order) {
	b.cache.Update(order.MustPrice(), order.InitialQuantity(), book.Add)
}

func (b *OrderBook) onOrderCancelled(order *common.Order) {
	b.cache.Update(order.MustPrice(), order.RemainingQuantity(), book.Remove)
}

func (b *OrderBook) onOrderMatched(price common.Price, qty common.Quantity, fullyFilled bool) {
	action := book.Match
	if fullyFilled {
		action = book.Remove
	}
	b.cache.Update(price, qty, action)
}

func minQuantity(a, b common.Quantity) common.Quantity {
	if a < b {
		return a
	}
	return b
}
