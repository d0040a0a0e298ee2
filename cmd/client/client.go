package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/saiputravu/orderbook-engine/internal/common"
	"github.com/saiputravu/orderbook-engine/internal/engine"
	"github.com/saiputravu/orderbook-engine/internal/wire"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "Address of the exchange server")
	action := flag.String("action", "place", "Action to perform: ['place', 'cancel', 'modify', 'log']")

	assetStr := flag.String("asset", "equities", "Asset type: 'equities', 'options' or 'futures'")
	orderID := flag.Uint64("id", 0, "Order id (compulsory for place/cancel/modify)")
	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	typeStr := flag.String("type", "gtc", "Order type: 'gtc', 'gfd', 'fak', 'fok' or 'market'")
	price := flag.Int("price", 0, "Limit price (ignored for market orders)")
	qty := flag.Uint("qty", 10, "Quantity")

	flag.Parse()

	if *action != "log" && *orderID == 0 {
		fmt.Println("Error: -id is required for place/cancel/modify.")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s\n", *serverAddr)

	go readReports(conn)

	asset := parseAsset(*assetStr)
	side := common.Buy
	if strings.EqualFold(*sideStr, "sell") {
		side = common.Sell
	}
	orderType, isMarket := parseOrderType(*typeStr)

	switch strings.ToLower(*action) {
	case "place":
		if err := sendPlaceOrder(conn, asset, common.OrderId(*orderID), orderType, isMarket, common.Price(*price), common.Quantity(*qty), side); err != nil {
			log.Printf("failed to place order: %v", err)
		} else {
			fmt.Printf("-> sent order %d\n", *orderID)
		}
	case "cancel":
		if err := sendCancelOrder(conn, asset, common.OrderId(*orderID)); err != nil {
			log.Printf("failed to send cancel: %v", err)
		} else {
			fmt.Printf("-> sent cancel for order %d\n", *orderID)
		}
	case "modify":
		if err := sendModifyOrder(conn, asset, common.OrderId(*orderID), side, common.Price(*price), common.Quantity(*qty)); err != nil {
			log.Printf("failed to send modify: %v", err)
		} else {
			fmt.Printf("-> sent modify for order %d\n", *orderID)
		}
	case "log":
		if err := sendLog(conn); err != nil {
			log.Printf("failed to send log request: %v", err)
		}
	default:
		log.Fatalf("unknown action: %s", *action)
	}

	time.Sleep(50 * time.Millisecond)
	fmt.Println("listening for reports... (Ctrl+C to exit)")
	select {}
}

func parseAsset(s string) engine.AssetType {
	switch strings.ToLower(s) {
	case "options":
		return engine.Options
	case "futures":
		return engine.Futures
	default:
		return engine.Equities
	}
}

func parseOrderType(s string) (t common.OrderType, isMarket bool) {
	switch strings.ToLower(s) {
	case "gfd":
		return common.GoodForDay, false
	case "fak":
		return common.FillAndKill, false
	case "fok":
		return common.FillOrKill, false
	case "market":
		return common.Market, true
	default:
		return common.GoodTillCancel, false
	}
}

func sendPlaceOrder(conn net.Conn, asset engine.AssetType, id common.OrderId, orderType common.OrderType, isMarket bool, price common.Price, qty common.Quantity, side common.Side) error {
	totalLen := wire.BaseMessageHeaderLen + wire.NewOrderMessageHeaderLen
	buf := make([]byte, totalLen)

	binary.BigEndian.PutUint16(buf[0:2], uint16(wire.NewOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(asset))
	binary.BigEndian.PutUint16(buf[4:6], uint16(orderType))
	binary.BigEndian.PutUint64(buf[6:14], uint64(id))
	buf[14] = byte(side)
	if isMarket {
		buf[15] = 0
	} else {
		buf[15] = 1
	}
	binary.BigEndian.PutUint32(buf[16:20], uint32(int32(price)))
	binary.BigEndian.PutUint32(buf[20:24], uint32(qty))

	_, err := conn.Write(buf)
	return err
}

func sendCancelOrder(conn net.Conn, asset engine.AssetType, id common.OrderId) error {
	buf := make([]byte, wire.BaseMessageHeaderLen+wire.CancelOrderMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(wire.CancelOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(asset))
	binary.BigEndian.PutUint64(buf[4:12], uint64(id))
	_, err := conn.Write(buf)
	return err
}

func sendModifyOrder(conn net.Conn, asset engine.AssetType, id common.OrderId, side common.Side, price common.Price, qty common.Quantity) error {
	buf := make([]byte, wire.BaseMessageHeaderLen+wire.ModifyOrderMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(wire.ModifyOrder))
	binary.BigEndian.PutUint16(buf[2:4], uint16(asset))
	binary.BigEndian.PutUint64(buf[4:12], uint64(id))
	buf[12] = byte(side)
	binary.BigEndian.PutUint32(buf[13:17], uint32(int32(price)))
	binary.BigEndian.PutUint32(buf[17:21], uint32(qty))
	_, err := conn.Write(buf)
	return err
}

func sendLog(conn net.Conn) error {
	buf := make([]byte, wire.BaseMessageHeaderLen)
	binary.BigEndian.PutUint16(buf[0:2], uint16(wire.LogBook))
	_, err := conn.Write(buf)
	return err
}

const reportFixedHeaderLen = 1 + 2 + 8 + 4 + 8 + 4 + 4 + 4

func readReports(conn net.Conn) {
	for {
		header := make([]byte, reportFixedHeaderLen)
		if _, err := io.ReadFull(conn, header); err != nil {
			if err != io.EOF {
				log.Printf("connection lost: %v", err)
			}
			os.Exit(0)
		}

		msgType := wire.ReportMessageType(header[0])
		errLen := binary.BigEndian.Uint32(header[31:35])

		var errStr string
		if errLen > 0 {
			errBuf := make([]byte, errLen)
			if _, err := io.ReadFull(conn, errBuf); err != nil {
				log.Printf("error reading report body: %v", err)
				return
			}
			errStr = string(errBuf)
		}

		if msgType == wire.ErrorReport {
			fmt.Printf("\n[SERVER ERROR] %s\n", errStr)
			continue
		}

		bidID := binary.BigEndian.Uint64(header[3:11])
		bidPrice := int32(binary.BigEndian.Uint32(header[11:15]))
		askID := binary.BigEndian.Uint64(header[15:23])
		askPrice := int32(binary.BigEndian.Uint32(header[23:27]))
		qty := binary.BigEndian.Uint32(header[27:31])

		fmt.Printf("\n[EXECUTION] bid=%d@%d ask=%d@%d qty=%d\n", bidID, bidPrice, askID, askPrice, qty)
	}
}
