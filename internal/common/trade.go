package common

import "fmt"

// TradeInfo bundles the details of one side of a filled match: which order,
// at what price, for how much.
type TradeInfo struct {
	OrderId  OrderId
	Price    Price
	Quantity Quantity
}

// Trade carries both sides of a single match: the resting bid and the
// resting ask that crossed. The recorded price on each side is the resting
// (maker) order's own price, not a derived mid — see OrderBook.matchOrders.
type Trade struct {
	Bid TradeInfo
	Ask TradeInfo
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{bid: {id: %d, price: %d, qty: %d}, ask: {id: %d, price: %d, qty: %d}}",
		t.Bid.OrderId, t.Bid.Price, t.Bid.Quantity,
		t.Ask.OrderId, t.Ask.Price, t.Ask.Quantity,
	)
}
