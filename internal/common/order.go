package common

import "fmt"

// Order is a mutable record of one resting or incoming intent to buy or
// sell. The engine is the sole owner of every admitted Order; callers
// reach it only through the book and order index, both guarded by the
// engine's mutex.
//
// Fill mechanics enforce remainingQuantity <= initialQuantity at all times.
// A Market order is created priceless (hasPrice == false) and is rewritten
// in place to GoodTillCancel, pinned at the worst opposing price, by
// RewriteToGoodTillCancel before it is ever admitted to a level.
type Order struct {
	id                OrderId
	side              Side
	orderType         OrderType
	price             Price
	hasPrice          bool
	initialQuantity   Quantity
	remainingQuantity Quantity
}

// NewOrder builds a priced order (GoodTillCancel, GoodForDay, FillAndKill
// or FillOrKill). quantity must be > 0.
func NewOrder(orderType OrderType, id OrderId, side Side, price Price, quantity Quantity) *Order {
	if quantity == 0 {
		panic(fmt.Sprintf("order %d: initial quantity must be > 0", id))
	}
	return &Order{
		id:                id,
		side:              side,
		orderType:         orderType,
		price:             price,
		hasPrice:          true,
		initialQuantity:   quantity,
		remainingQuantity: quantity,
	}
}

// NewMarketOrder builds a priceless Market order. It must be rewritten via
// RewriteToGoodTillCancel before it can rest on a level.
func NewMarketOrder(id OrderId, side Side, quantity Quantity) *Order {
	if quantity == 0 {
		panic(fmt.Sprintf("order %d: initial quantity must be > 0", id))
	}
	return &Order{
		id:                id,
		side:              side,
		orderType:         Market,
		hasPrice:          false,
		initialQuantity:   quantity,
		remainingQuantity: quantity,
	}
}

func (o *Order) ID() OrderId                 { return o.id }
func (o *Order) Side() Side                  { return o.side }
func (o *Order) Type() OrderType             { return o.orderType }
func (o *Order) InitialQuantity() Quantity   { return o.initialQuantity }
func (o *Order) RemainingQuantity() Quantity { return o.remainingQuantity }
func (o *Order) FilledQuantity() Quantity {
	return o.initialQuantity - o.remainingQuantity
}
func (o *Order) IsFilled() bool { return o.remainingQuantity == 0 }

// Price returns the order's limit price and whether it has been set yet.
// A Market order returns (0, false) until RewriteToGoodTillCancel runs.
func (o *Order) Price() (Price, bool) { return o.price, o.hasPrice }

// MustPrice returns the limit price, panicking if the order has none.
// Safe to call on anything resting in a Level, since only admitted
// (priced) orders are ever pushed onto one.
func (o *Order) MustPrice() Price {
	if !o.hasPrice {
		panic(fmt.Sprintf("order %d has no price", o.id))
	}
	return o.price
}

// Fill reduces the order's remaining quantity by quantity. Calling it with
// more than RemainingQuantity is a programmer error (spec.md §7 domain
// violation) and panics rather than returning an error.
func (o *Order) Fill(quantity Quantity) {
	if quantity > o.remainingQuantity {
		panic(fmt.Sprintf(
			"order %d cannot be filled for more than its remaining quantity %d",
			o.id, o.remainingQuantity,
		))
	}
	o.remainingQuantity -= quantity
}

// RewriteToGoodTillCancel converts an admitted Market order into a
// GoodTillCancel order pinned at price. Calling it on anything but a
// Market order is a programmer error and panics.
func (o *Order) RewriteToGoodTillCancel(price Price) {
	if o.orderType != Market {
		panic(fmt.Sprintf("order %d is not a market order: cannot rewrite its price and type", o.id))
	}
	o.price = price
	o.hasPrice = true
	o.orderType = GoodTillCancel
}

func (o *Order) String() string {
	price, ok := o.Price()
	priceStr := "none"
	if ok {
		priceStr = fmt.Sprintf("%d", price)
	}
	return fmt.Sprintf(
		"Order{id: %d, side: %v, type: %v, price: %s, remaining: %d/%d}",
		o.id, o.side, o.orderType, priceStr, o.remainingQuantity, o.initialQuantity,
	)
}

// OrderModify is a data-transfer object for ModifyOrder requests: it
// carries only what the caller is changing (side, price, quantity), not an
// order type, since the caller may not know the resting order's current
// type. The engine stamps the preserved type onto a fresh Order via
// ToOrder.
type OrderModify struct {
	orderId  OrderId
	side     Side
	price    Price
	quantity Quantity
}

func NewOrderModify(orderId OrderId, side Side, price Price, quantity Quantity) OrderModify {
	return OrderModify{orderId: orderId, side: side, price: price, quantity: quantity}
}

func (m OrderModify) OrderID() OrderId   { return m.orderId }
func (m OrderModify) Side() Side         { return m.side }
func (m OrderModify) Price() Price       { return m.price }
func (m OrderModify) Quantity() Quantity { return m.quantity }

// ToOrder stamps the preserved orderType from the order being replaced onto
// a brand new Order carrying this modification's side/price/quantity.
func (m OrderModify) ToOrder(orderType OrderType) *Order {
	return NewOrder(orderType, m.orderId, m.side, m.price, m.quantity)
}
