package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/orderbook-engine/internal/common"
)

func TestLevel_FIFOOrder(t *testing.T) {
	level := NewLevel(100)
	assert.True(t, level.Empty())

	first := common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10)
	second := common.NewOrder(common.GoodTillCancel, 2, common.Buy, 100, 5)
	level.PushBack(first)
	level.PushBack(second)

	assert.False(t, level.Empty())
	assert.Equal(t, 2, level.Len())
	assert.Equal(t, common.OrderId(1), level.Front().ID())

	popped := level.PopFront()
	require.NotNil(t, popped)
	assert.Equal(t, common.OrderId(1), popped.ID())
	assert.Equal(t, common.OrderId(2), level.Front().ID())
}

func TestLevel_RemoveStablePosition(t *testing.T) {
	level := NewLevel(100)

	a := common.NewOrder(common.GoodTillCancel, 1, common.Buy, 100, 10)
	b := common.NewOrder(common.GoodTillCancel, 2, common.Buy, 100, 10)
	c := common.NewOrder(common.GoodTillCancel, 3, common.Buy, 100, 10)

	level.PushBack(a)
	posB := level.PushBack(b)
	level.PushBack(c)

	level.Remove(posB)

	assert.Equal(t, 2, level.Len())
	orders := level.Orders()
	assert.Equal(t, common.OrderId(1), orders[0].ID())
	assert.Equal(t, common.OrderId(3), orders[1].ID())
}

func TestLevel_PopFrontEmpty(t *testing.T) {
	level := NewLevel(100)
	assert.Nil(t, level.PopFront())
	assert.Nil(t, level.Front())
}
