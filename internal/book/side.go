package book

import (
	"github.com/saiputravu/orderbook-engine/internal/common"
	"github.com/tidwall/btree"
)

// Side is a sorted Price -> Level mapping backed by a tidwall/btree B-tree,
// giving O(log n) insertion and efficient access to both the best and
// worst resting price. Bid sides order descending (best = highest price
// first); ask sides order ascending (best = lowest price first) - see
// NewBidSide/NewAskSide.
type Side struct {
	tree *btree.BTreeG[*Level]
}

func newSide(less func(a, b *Level) bool) *Side {
	return &Side{tree: btree.NewBTreeG(less)}
}

// NewBidSide builds a Side ordered with the highest price first.
func NewBidSide() *Side {
	return newSide(func(a, b *Level) bool { return a.price > b.price })
}

// NewAskSide builds a Side ordered with the lowest price first.
func NewAskSide() *Side {
	return newSide(func(a, b *Level) bool { return a.price < b.price })
}

// Level returns the level at price, if one exists.
func (s *Side) Level(price common.Price) (*Level, bool) {
	return s.tree.GetMut(&Level{price: price})
}

// EnsureLevel returns the level at price, creating and inserting an empty
// one if none exists yet.
func (s *Side) EnsureLevel(price common.Price) *Level {
	if level, ok := s.tree.GetMut(&Level{price: price}); ok {
		return level
	}
	level := NewLevel(price)
	s.tree.Set(level)
	return level
}

// DeleteLevel erases the level at price, if present.
func (s *Side) DeleteLevel(price common.Price) {
	s.tree.Delete(&Level{price: price})
}

// Best returns the most aggressive resting level (highest bid / lowest
// ask).
func (s *Side) Best() (*Level, bool) {
	return s.tree.MinMut()
}

// Worst returns the least aggressive resting level, which is where an
// admitted Market order gets pinned once rewritten to GoodTillCancel.
func (s *Side) Worst() (*Level, bool) {
	return s.tree.MaxMut()
}

func (s *Side) Empty() bool { return s.tree.Len() == 0 }
func (s *Side) Len() int    { return s.tree.Len() }

// Levels returns every level on this side in the side's natural order
// (best first).
func (s *Side) Levels() []*Level {
	return s.tree.Items()
}
