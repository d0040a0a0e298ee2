package pruner

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/orderbook-engine/internal/common"
)

type fakeBook struct {
	mu           sync.Mutex
	gfdIDs       []common.OrderId
	cancelledIDs []common.OrderId
	cancelled    chan struct{}
}

func newFakeBook(ids []common.OrderId) *fakeBook {
	return &fakeBook{gfdIDs: ids, cancelled: make(chan struct{}, 1)}
}

func (f *fakeBook) GoodForDayOrderIDs() []common.OrderId {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gfdIDs
}

func (f *fakeBook) CancelOrders(ids []common.OrderId) {
	f.mu.Lock()
	f.cancelledIDs = append(f.cancelledIDs, ids...)
	f.mu.Unlock()
	select {
	case f.cancelled <- struct{}{}:
	default:
	}
}

func TestPruner_FiresAtScheduledTime(t *testing.T) {
	now := time.Date(2026, 7, 29, 15, 59, 59, 900_000_000, time.UTC)

	book := newFakeBook([]common.OrderId{1, 2, 3})
	p := New(book, 16, 0, zerolog.Nop())
	p.now = func() time.Time { return now }

	p.Start()
	defer p.Stop()

	select {
	case <-book.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("pruner did not fire within the expected window")
	}

	book.mu.Lock()
	defer book.mu.Unlock()
	assert.ElementsMatch(t, []common.OrderId{1, 2, 3}, book.cancelledIDs)
}

func TestPruner_NextOccurrenceRollsToTomorrowWhenPast(t *testing.T) {
	book := newFakeBook(nil)
	p := New(book, 16, 0, zerolog.Nop())
	p.now = func() time.Time {
		return time.Date(2026, 7, 29, 16, 0, 1, 0, time.UTC)
	}

	target := p.nextOccurrence()
	require.Equal(t, 30, target.Day())
	assert.Equal(t, 16, target.Hour())
}

func TestPruner_StopIsClean(t *testing.T) {
	book := newFakeBook(nil)
	p := New(book, 16, 0, zerolog.Nop())
	p.now = func() time.Time { return time.Date(2026, 7, 29, 8, 0, 0, 0, time.UTC) }

	p.Start()
	assert.NoError(t, p.Stop())
}
