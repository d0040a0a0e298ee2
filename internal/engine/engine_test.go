package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/orderbook-engine/internal/common"
)

func newTestEngine() *Engine {
	return NewEngine(zerolog.Nop(), []AssetType{Equities, Options}, WithoutDayPruner())
}

func TestEngine_RoutesByAssetType(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	_, err := eng.PlaceOrder(Equities, common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	require.NoError(t, err)

	equities, ok := eng.Book(Equities)
	require.True(t, ok)
	assert.Equal(t, 1, equities.Size())

	options, ok := eng.Book(Options)
	require.True(t, ok)
	assert.Equal(t, 0, options.Size())
}

func TestEngine_UnknownAssetRejected(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	_, err := eng.PlaceOrder(Futures, common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	assert.ErrorIs(t, err, ErrUnknownAsset)

	err = eng.CancelOrder(Futures, 1)
	assert.ErrorIs(t, err, ErrUnknownAsset)

	_, err = eng.ModifyOrder(Futures, common.NewOrderModify(1, common.Buy, 100, 10))
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestEngine_CancelAndModifyRouteCorrectly(t *testing.T) {
	eng := newTestEngine()
	defer eng.Close()

	_, err := eng.PlaceOrder(Equities, common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10))
	require.NoError(t, err)

	_, err = eng.ModifyOrder(Equities, common.NewOrderModify(1, common.Buy, 101, 5))
	require.NoError(t, err)

	book, _ := eng.Book(Equities)
	snap := book.Snapshot()
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, common.Price(101), snap.Bids[0].Price)

	err = eng.CancelOrder(Equities, 1)
	require.NoError(t, err)

	assert.Equal(t, 0, book.Size())
}
