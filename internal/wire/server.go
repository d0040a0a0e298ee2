package wire

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"github.com/saiputravu/orderbook-engine/internal/common"
	"github.com/saiputravu/orderbook-engine/internal/engine"
)

const (
	maxRecvSize        = 4 * 1024
	defaultNWorkers    = 10
	defaultConnTimeout = 30 * time.Second
)

var (
	ErrImproperConversion = errors.New("improper type conversion")
	ErrClientDoesNotExist = errors.New("client does not exist")
)

// clientMessage links a parsed message to the connection it arrived on.
type clientMessage struct {
	conn    net.Conn
	message Message
}

// Server is the demonstration TCP harness around an Engine: it accepts
// connections, parses wire messages off each with a bounded worker pool,
// routes them to the engine, and reports fills and errors back to the
// originating connections.
type Server struct {
	address string
	port    int
	engine  *engine.Engine
	logger  zerolog.Logger

	pool   workerPool
	cancel context.CancelFunc

	mu       sync.Mutex
	originOf map[common.OrderId]net.Conn
	messages chan clientMessage
}

func New(address string, port int, eng *engine.Engine, logger zerolog.Logger) *Server {
	return &Server{
		address:  address,
		port:     port,
		engine:   eng,
		logger:   logger,
		pool:     newWorkerPool(defaultNWorkers, logger),
		originOf: make(map[common.OrderId]net.Conn),
		messages: make(chan clientMessage, 1),
	}
}

func (s *Server) Shutdown() {
	s.logger.Info().Msg("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
}

// Run starts the listener, worker pool and session handler, and blocks
// accepting connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	defer s.Shutdown()

	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		s.logger.Error().Err(err).Msg("unable to start listener")
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			s.logger.Error().Err(err).Msg("unable to close listener")
		}
	}()

	t.Go(func() error {
		s.pool.setup(t, s.handleConnection)
		return nil
	})
	t.Go(func() error {
		return s.sessionHandler(t)
	})

	s.logger.Info().Str("address", listener.Addr().String()).Msg("server running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					s.logger.Error().Err(err).Msg("error accepting client")
					continue
				}
			}
			s.logger.Info().Str("address", conn.RemoteAddr().String()).Msg("new client connected")
			s.pool.addTask(conn)
		}
	}
}

func (s *Server) sessionHandler(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case cm := <-s.messages:
			if err := s.handleMessage(cm); err != nil {
				s.logger.Error().Err(err).Str("address", cm.conn.RemoteAddr().String()).Msg("error handling message")
				s.reportError(cm.conn, err)
			}
		}
	}
}

func (s *Server) handleMessage(cm clientMessage) error {
	switch msg := cm.message.(type) {
	case NewOrderMessage:
		order := msg.Order()
		s.mu.Lock()
		s.originOf[order.ID()] = cm.conn
		s.mu.Unlock()

		trades, err := s.engine.PlaceOrder(msg.AssetType, order)
		if err != nil {
			return err
		}
		for _, trade := range trades {
			s.reportTrade(msg.AssetType, trade)
		}
	case CancelOrderMessage:
		if err := s.engine.CancelOrder(msg.AssetType, msg.OrderId); err != nil {
			return err
		}
	case ModifyOrderMessage:
		trades, err := s.engine.ModifyOrder(msg.AssetType, msg.Modify())
		if err != nil {
			return err
		}
		for _, trade := range trades {
			s.reportTrade(msg.AssetType, trade)
		}
	case BaseMessage:
		if msg.GetType() == LogBook {
			s.logger.Info().Msg("book snapshot requested")
		}
	default:
		return ErrInvalidMessageType
	}
	return nil
}

// reportTrade writes the execution report to whichever connections placed
// the two crossed orders, if they are still connected.
func (s *Server) reportTrade(assetType engine.AssetType, trade common.Trade) {
	report := TradeReport(assetType, trade).Serialize()

	s.mu.Lock()
	bidConn := s.originOf[trade.Bid.OrderId]
	askConn := s.originOf[trade.Ask.OrderId]
	s.mu.Unlock()

	for _, conn := range []net.Conn{bidConn, askConn} {
		if conn == nil {
			continue
		}
		if _, err := conn.Write(report); err != nil {
			s.logger.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("unable to send execution report")
		}
	}
}

func (s *Server) reportError(conn net.Conn, err error) {
	report := NewErrorReport(err).Serialize()
	if _, writeErr := conn.Write(report); writeErr != nil {
		s.logger.Error().Err(writeErr).Msg("unable to send error report")
	}
}

// handleConnection reads one message off conn, parses it, forwards it to
// the session handler, then re-queues conn for its next message. Any
// returned error is fatal to the worker.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return ErrImproperConversion
	}

	if err := conn.SetDeadline(time.Now().Add(defaultConnTimeout)); err != nil {
		s.logger.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("failed setting deadline")
		conn.Close()
		return nil
	}

	select {
	case <-t.Dying():
		return nil
	default:
		buffer := make([]byte, maxRecvSize)
		n, err := conn.Read(buffer)
		if err != nil {
			s.logger.Debug().Err(err).Str("address", conn.RemoteAddr().String()).Msg("connection closed")
			conn.Close()
			return nil
		}

		message, err := ParseMessage(buffer[:n])
		if err != nil {
			s.logger.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("error parsing message")
			conn.Close()
			return nil
		}

		s.messages <- clientMessage{conn: conn, message: message}
		s.pool.addTask(conn)
	}
	return nil
}
