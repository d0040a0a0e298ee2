package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/orderbook-engine/internal/common"
)

func newTestBook() *OrderBook {
	return New(WithoutDayPruner())
}

// S1 Cancel success.
func TestScenario_CancelSuccess(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	book.CancelOrder(1)

	assert.Equal(t, 0, book.Size())
	snap := book.Snapshot()
	assert.Len(t, snap.Bids, 0)
	assert.Len(t, snap.Asks, 0)
}

// S2 No match.
func TestScenario_NoMatch(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	trades := book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	assert.Empty(t, trades)
	trades = book.AddOrder(common.NewOrder(common.GoodTillCancel, 2, common.Sell, 110, 5))
	assert.Empty(t, trades)

	assert.Equal(t, 2, book.Size())
	snap := book.Snapshot()
	assert.Len(t, snap.Bids, 1)
	assert.Len(t, snap.Asks, 1)
}

// S3 Full match.
func TestScenario_FullMatch(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	trades := book.AddOrder(common.NewOrder(common.GoodTillCancel, 2, common.Sell, 100, 10))

	require.Len(t, trades, 1)
	assert.Equal(t, common.OrderId(1), trades[0].Bid.OrderId)
	assert.Equal(t, common.Price(100), trades[0].Bid.Price)
	assert.Equal(t, common.Quantity(10), trades[0].Bid.Quantity)
	assert.Equal(t, common.OrderId(2), trades[0].Ask.OrderId)
	assert.Equal(t, common.Price(100), trades[0].Ask.Price)
	assert.Equal(t, common.Quantity(10), trades[0].Ask.Quantity)

	assert.Equal(t, 0, book.Size())
}

// S4 FillAndKill partial.
func TestScenario_FillAndKillPartial(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	trades := book.AddOrder(common.NewOrder(common.FillAndKill, 2, common.Sell, 100, 4))

	require.Len(t, trades, 1)
	assert.Equal(t, common.Quantity(4), trades[0].Bid.Quantity)
	assert.Equal(t, 1, book.Size())

	snap := book.Snapshot()
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, common.Quantity(6), snap.Bids[0].Quantity)
}

// S5 FillOrKill miss.
func TestScenario_FillOrKillMiss(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 3))
	trades := book.AddOrder(common.NewOrder(common.FillOrKill, 2, common.Sell, 100, 5))

	assert.Empty(t, trades)
	assert.Equal(t, 1, book.Size())
}

// S6 FillOrKill hit spanning levels.
func TestScenario_FillOrKillHitSpanningLevels(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 101, 2))
	book.AddOrder(common.NewOrder(common.GoodTillCancel, 2, common.Buy, 100, 3))
	trades := book.AddOrder(common.NewOrder(common.FillOrKill, 3, common.Sell, 100, 5))

	require.Len(t, trades, 2)
	assert.Equal(t, common.OrderId(1), trades[0].Bid.OrderId)
	assert.Equal(t, common.Quantity(2), trades[0].Bid.Quantity)
	assert.Equal(t, common.OrderId(2), trades[1].Bid.OrderId)
	assert.Equal(t, common.Quantity(3), trades[1].Bid.Quantity)

	assert.Equal(t, 0, book.Size())
}

// S7 Modify loses priority.
func TestScenario_ModifyLosesPriority(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	book.AddOrder(common.NewOrder(common.GoodTillCancel, 2, common.Buy, 100, 10))
	book.ModifyOrder(common.NewOrderModify(1, common.Buy, 100, 10))

	trades := book.AddOrder(common.NewOrder(common.GoodTillCancel, 3, common.Sell, 100, 10))

	require.Len(t, trades, 1)
	assert.Equal(t, common.OrderId(2), trades[0].Bid.OrderId, "order 1 moved to tail after modify")
}

func TestAddOrder_DuplicateIDRejected(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	trades := book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))

	assert.Nil(t, trades)
	assert.Equal(t, 1, book.Size())
}

func TestAddOrder_MarketRejectedAgainstEmptyBook(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	trades := book.AddOrder(common.NewMarketOrder(1, common.Buy, 10))
	assert.Nil(t, trades)
	assert.Equal(t, 0, book.Size())
}

func TestAddOrder_MarketRewrittenToWorstOppositePrice(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Sell, 100, 5))
	book.AddOrder(common.NewOrder(common.GoodTillCancel, 2, common.Sell, 105, 5))

	trades := book.AddOrder(common.NewMarketOrder(3, common.Buy, 5))
	require.Len(t, trades, 1)
	assert.Equal(t, common.Price(105), trades[0].Bid.Price, "market buy rewritten to the worst (highest) ask price")
	assert.Equal(t, common.Price(100), trades[0].Ask.Price, "market buy matches best (lowest) ask first")
}

func TestAddOrder_FillAndKillRejectedWithNoMatch(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	trades := book.AddOrder(common.NewOrder(common.FillAndKill, 1, common.Buy, 100, 10))
	assert.Nil(t, trades)
	assert.Equal(t, 0, book.Size())
}

func TestCancelOrder_Idempotent(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	book.CancelOrder(1)
	book.CancelOrder(1)

	assert.Equal(t, 0, book.Size())
}

func TestCancelOrder_UnknownIDIsNoOp(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.CancelOrder(999)
	assert.Equal(t, 0, book.Size())
}

func TestAddThenCancel_RestoresPreAddState(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	before := book.Snapshot()
	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	book.CancelOrder(1)
	after := book.Snapshot()

	assert.Equal(t, before, after)
}

func TestSnapshot_AggregatesQuantityAndCount(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	book.AddOrder(common.NewOrder(common.GoodTillCancel, 2, common.Buy, 100, 5))
	book.AddOrder(common.NewOrder(common.GoodTillCancel, 3, common.Buy, 99, 7))

	snap := book.Snapshot()
	require.Len(t, snap.Bids, 2)
	assert.Equal(t, common.Price(100), snap.Bids[0].Price)
	assert.Equal(t, common.Quantity(15), snap.Bids[0].Quantity)
	assert.Equal(t, uint32(2), snap.Bids[0].Count)
	assert.Equal(t, common.Price(99), snap.Bids[1].Price)
	assert.Equal(t, uint32(3), snap.BidCount())
}

func TestGoodForDayOrderIDs_OnlyGoodForDay(t *testing.T) {
	book := newTestBook()
	defer book.Close()

	book.AddOrder(common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	book.AddOrder(common.NewOrder(common.GoodForDay, 2, common.Buy, 99, 5))

	ids := book.GoodForDayOrderIDs()
	require.Len(t, ids, 1)
	assert.Equal(t, common.OrderId(2), ids[0])
}
