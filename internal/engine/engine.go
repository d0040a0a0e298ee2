package engine

import (
	"github.com/rs/zerolog"

	"github.com/saiputravu/orderbook-engine/internal/common"
)

// Engine owns one OrderBook per supported instrument and routes every
// call by AssetType. The matching core itself knows nothing about
// instruments - that routing lives here, one layer up.
type Engine struct {
	books map[AssetType]*OrderBook
}

// NewEngine constructs an Engine with one freshly-started OrderBook per
// asset in supportedAssets. opts apply identically to every book.
func NewEngine(logger zerolog.Logger, supportedAssets []AssetType, opts ...Option) *Engine {
	bookOpts := append([]Option{WithLogger(logger)}, opts...)

	books := make(map[AssetType]*OrderBook, len(supportedAssets))
	for _, assetType := range supportedAssets {
		books[assetType] = New(bookOpts...)
	}

	return &Engine{books: books}
}

// Close stops every instrument's day-pruner.
func (e *Engine) Close() error {
	var firstErr error
	for _, b := range e.books {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Book returns the OrderBook for assetType, or (nil, false) if that asset
// was never registered with NewEngine.
func (e *Engine) Book(assetType AssetType) (*OrderBook, bool) {
	b, ok := e.books[assetType]
	return b, ok
}

// PlaceOrder routes order to assetType's book and returns the resulting
// trades. Returns ErrUnknownAsset if assetType was never registered.
func (e *Engine) PlaceOrder(assetType AssetType, order *common.Order) ([]common.Trade, error) {
	b, ok := e.books[assetType]
	if !ok {
		return nil, ErrUnknownAsset
	}
	return b.AddOrder(order), nil
}

// CancelOrder routes a cancellation to assetType's book. Returns
// ErrUnknownAsset if assetType was never registered.
func (e *Engine) CancelOrder(assetType AssetType, id common.OrderId) error {
	b, ok := e.books[assetType]
	if !ok {
		return ErrUnknownAsset
	}
	b.CancelOrder(id)
	return nil
}

// ModifyOrder routes a modification to assetType's book. Returns
// ErrUnknownAsset if assetType was never registered.
func (e *Engine) ModifyOrder(assetType AssetType, mod common.OrderModify) ([]common.Trade, error) {
	b, ok := e.books[assetType]
	if !ok {
		return nil, ErrUnknownAsset
	}
	return b.ModifyOrder(mod), nil
}
