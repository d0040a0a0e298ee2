package engine

import "github.com/saiputravu/orderbook-engine/internal/common"

// LevelInfo is a per-price aggregate: the total quantity resting at price
// and how many orders make it up. Built from the level-metadata cache, not
// by walking each level's order list.
type LevelInfo struct {
	Price    common.Price
	Quantity common.Quantity
	Count    uint32
}

// Snapshot is a point-in-time compilation of the book's internals: one
// LevelInfo per active price on each side, bids in descending price order
// and asks in ascending order.
type Snapshot struct {
	Bids []LevelInfo
	Asks []LevelInfo
}

// BidCount sums the order count across every bid level - the whole-side
// total the original engine exposes via GetBidCount, distinct from any
// single level's Count.
func (s Snapshot) BidCount() uint32 {
	return sumCounts(s.Bids)
}

// AskCount sums the order count across every ask level.
func (s Snapshot) AskCount() uint32 {
	return sumCounts(s.Asks)
}

func sumCounts(levels []LevelInfo) uint32 {
	var total uint32
	for _, level := range levels {
		total += level.Count
	}
	return total
}
