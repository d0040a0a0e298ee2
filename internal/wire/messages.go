// Package wire is the binary protocol the demonstration server and client
// speak over TCP: fixed-width headers for order placement, cancellation
// and modification, plus execution/error reports (fixed-width header plus
// error text) sent back.
// This is the embedding harness around the matching core, not part of its
// tested invariant surface.
package wire

import (
	"encoding/binary"
	"errors"

	"github.com/saiputravu/orderbook-engine/internal/common"
	"github.com/saiputravu/orderbook-engine/internal/engine"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for specified payload")
)

type MessageType int

const (
	Heartbeat MessageType = iota
	NewOrder
	CancelOrder
	ModifyOrder
	LogBook
)

type ReportMessageType int

const (
	ExecutionReport ReportMessageType = iota
	ErrorReport
)

type Message interface {
	GetType() MessageType
}

// Message format constants. Every multi-byte integer is big-endian.
const (
	BaseMessageHeaderLen = 2

	// 2 (asset) + 2 (orderType) + 8 (orderId) + 1 (side) + 1 (hasPrice) +
	// 4 (price) + 4 (quantity)
	NewOrderMessageHeaderLen = 2 + 2 + 8 + 1 + 1 + 4 + 4
	// 2 (asset) + 8 (orderId)
	CancelOrderMessageHeaderLen = 2 + 8
	// 2 (asset) + 8 (orderId) + 1 (side) + 4 (price) + 4 (quantity)
	ModifyOrderMessageHeaderLen = 2 + 8 + 1 + 4 + 4
)

// BaseMessage is embedded by every concrete message to satisfy Message.
type BaseMessage struct {
	TypeOf MessageType
}

func (m BaseMessage) GetType() MessageType { return m.TypeOf }

// ParseMessage strips the 2-byte type header off msg and dispatches to the
// matching per-type parser.
func ParseMessage(msg []byte) (Message, error) {
	if len(msg) < BaseMessageHeaderLen {
		return nil, ErrMessageTooShort
	}

	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	body := msg[2:]
	switch typeOf {
	case NewOrder:
		return parseNewOrder(body)
	case CancelOrder:
		return parseCancelOrder(body)
	case ModifyOrder:
		return parseModifyOrder(body)
	case LogBook:
		return BaseMessage{TypeOf: LogBook}, nil
	default:
		return nil, ErrInvalidMessageType
	}
}

type NewOrderMessage struct {
	BaseMessage
	AssetType engine.AssetType
	OrderType common.OrderType
	OrderId   common.OrderId
	Side      common.Side
	HasPrice  bool
	Price     common.Price
	Quantity  common.Quantity
}

// Order builds the domain Order this message describes. A priceless
// message (HasPrice == false) yields a Market order regardless of the
// OrderType field, matching admission's own Market-only rewrite path.
func (m NewOrderMessage) Order() *common.Order {
	if !m.HasPrice {
		return common.NewMarketOrder(m.OrderId, m.Side, m.Quantity)
	}
	return common.NewOrder(m.OrderType, m.OrderId, m.Side, m.Price, m.Quantity)
}

func parseNewOrder(msg []byte) (NewOrderMessage, error) {
	if len(msg) < NewOrderMessageHeaderLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m := NewOrderMessage{BaseMessage: BaseMessage{TypeOf: NewOrder}}
	m.AssetType = engine.AssetType(binary.BigEndian.Uint16(msg[0:2]))
	m.OrderType = common.OrderType(binary.BigEndian.Uint16(msg[2:4]))
	m.OrderId = common.OrderId(binary.BigEndian.Uint64(msg[4:12]))
	m.Side = common.Side(msg[12])
	m.HasPrice = msg[13] != 0
	m.Price = common.Price(int32(binary.BigEndian.Uint32(msg[14:18])))
	m.Quantity = common.Quantity(binary.BigEndian.Uint32(msg[18:22]))
	return m, nil
}

type CancelOrderMessage struct {
	BaseMessage
	AssetType engine.AssetType
	OrderId   common.OrderId
}

func parseCancelOrder(msg []byte) (CancelOrderMessage, error) {
	if len(msg) < CancelOrderMessageHeaderLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	m := CancelOrderMessage{BaseMessage: BaseMessage{TypeOf: CancelOrder}}
	m.AssetType = engine.AssetType(binary.BigEndian.Uint16(msg[0:2]))
	m.OrderId = common.OrderId(binary.BigEndian.Uint64(msg[2:10]))
	return m, nil
}

type ModifyOrderMessage struct {
	BaseMessage
	AssetType engine.AssetType
	OrderId   common.OrderId
	Side      common.Side
	Price     common.Price
	Quantity  common.Quantity
}

func (m ModifyOrderMessage) Modify() common.OrderModify {
	return common.NewOrderModify(m.OrderId, m.Side, m.Price, m.Quantity)
}

func parseModifyOrder(msg []byte) (ModifyOrderMessage, error) {
	if len(msg) < ModifyOrderMessageHeaderLen {
		return ModifyOrderMessage{}, ErrMessageTooShort
	}
	m := ModifyOrderMessage{BaseMessage: BaseMessage{TypeOf: ModifyOrder}}
	m.AssetType = engine.AssetType(binary.BigEndian.Uint16(msg[0:2]))
	m.OrderId = common.OrderId(binary.BigEndian.Uint64(msg[2:10]))
	m.Side = common.Side(msg[10])
	m.Price = common.Price(int32(binary.BigEndian.Uint32(msg[11:15])))
	m.Quantity = common.Quantity(binary.BigEndian.Uint32(msg[15:19]))
	return m, nil
}

// Report is an execution or error report sent back to a connected client:
// a fixed-width header followed by the error text, which is empty for
// execution reports.
type Report struct {
	MessageType ReportMessageType
	AssetType   engine.AssetType
	BidOrderId  common.OrderId
	BidPrice    common.Price
	AskOrderId  common.OrderId
	AskPrice    common.Price
	Quantity    common.Quantity
	Err         string
}

// reportFixedHeaderLen: 1 (type) + 2 (asset) + 8+4 (bid) + 8+4 (ask) +
// 4 (qty) + 4 (errLen)
const reportFixedHeaderLen = 1 + 2 + 8 + 4 + 8 + 4 + 4 + 4

// Serialize converts the report to its wire representation.
func (r *Report) Serialize() []byte {
	buf := make([]byte, reportFixedHeaderLen+len(r.Err))
	buf[0] = byte(r.MessageType)
	binary.BigEndian.PutUint16(buf[1:3], uint16(r.AssetType))
	binary.BigEndian.PutUint64(buf[3:11], uint64(r.BidOrderId))
	binary.BigEndian.PutUint32(buf[11:15], uint32(r.BidPrice))
	binary.BigEndian.PutUint64(buf[15:23], uint64(r.AskOrderId))
	binary.BigEndian.PutUint32(buf[23:27], uint32(r.AskPrice))
	binary.BigEndian.PutUint32(buf[27:31], uint32(r.Quantity))
	binary.BigEndian.PutUint32(buf[31:35], uint32(len(r.Err)))
	copy(buf[35:], r.Err)
	return buf
}

// TradeReport builds the execution report for one Trade.
func TradeReport(assetType engine.AssetType, trade common.Trade) *Report {
	return &Report{
		MessageType: ExecutionReport,
		AssetType:   assetType,
		BidOrderId:  trade.Bid.OrderId,
		BidPrice:    trade.Bid.Price,
		AskOrderId:  trade.Ask.OrderId,
		AskPrice:    trade.Ask.Price,
		Quantity:    trade.Bid.Quantity,
	}
}

// NewErrorReport builds an error report carrying err's message.
func NewErrorReport(err error) *Report {
	return &Report{MessageType: ErrorReport, Err: err.Error()}
}
