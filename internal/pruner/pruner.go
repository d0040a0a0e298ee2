// Package pruner implements the day-scoped background worker: it cancels
// every GoodForDay order still resting at a configured local wall-clock
// boundary (default 16:00), then re-arms for the next occurrence.
package pruner

import (
	"time"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"github.com/saiputravu/orderbook-engine/internal/common"
)

// safetyMargin compensates for wake-up jitter around the target time -
// without it a pruner that wakes a hair early would see "not yet 16:00"
// and immediately re-arm for almost the same instant.
const safetyMargin = 100 * time.Millisecond

// Book is the slice of OrderBook the pruner needs: a two-phase
// collect-then-cancel so the scan never holds the lock across the cancel
// (spec.md §4.5's stated rationale: bound the critical section and avoid
// invalidating the iteration).
type Book interface {
	GoodForDayOrderIDs() []common.OrderId
	CancelOrders(ids []common.OrderId)
}

// Pruner supervises the day-pruning goroutine via a tomb.Tomb, the same
// supervision primitive the teacher uses for its worker pool and session
// handler (internal/worker.go, internal/net/server.go).
type Pruner struct {
	book   Book
	hour   int
	minute int
	logger zerolog.Logger
	t      tomb.Tomb

	// now is overridable in tests so the schedule can be exercised
	// without sleeping until an actual wall-clock boundary.
	now func() time.Time
}

// New builds a Pruner targeting hour:minute local time every day. Call
// Start to begin the background loop and Stop to shut it down cleanly.
func New(book Book, hour, minute int, logger zerolog.Logger) *Pruner {
	return &Pruner{
		book:   book,
		hour:   hour,
		minute: minute,
		logger: logger,
		now:    time.Now,
	}
}

// Start launches the pruning loop under the tomb's supervision.
func (p *Pruner) Start() {
	p.t.Go(p.run)
}

// Stop signals shutdown and blocks until the loop has exited.
func (p *Pruner) Stop() error {
	p.t.Kill(nil)
	return p.t.Wait()
}

func (p *Pruner) run() error {
	for {
		target := p.nextOccurrence().Add(safetyMargin)

		select {
		case <-p.t.Dying():
			return nil
		case <-time.After(target.Sub(p.now())):
		}

		ids := p.book.GoodForDayOrderIDs()
		p.book.CancelOrders(ids)
		p.logger.Info().
			Int("count", len(ids)).
			Time("at", target).
			Msg("pruned good-for-day orders")
	}
}

// nextOccurrence computes the next hour:minute boundary, recomputed fresh
// every loop iteration (rather than cached once) so suspend/resume or
// clock drift between wakeups is absorbed automatically.
func (p *Pruner) nextOccurrence() time.Time {
	now := p.now()
	target := time.Date(now.Year(), now.Month(), now.Day(), p.hour, p.minute, 0, 0, now.Location())
	if !now.Before(target) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}
