package engine

import "github.com/rs/zerolog"

// Option configures an OrderBook at construction time. Following the
// teacher's constructor-parameter style (server.New(address, port)) rather
// than a config-file parser: reading actions from files is an external
// collaborator per spec.md §1, not the core's concern.
type Option func(*OrderBook)

// WithLogger attaches a structured logger. Defaults to zerolog.Nop() (no
// output) so tests can construct books without configuring logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *OrderBook) { b.logger = logger }
}

// WithDayPruneTime overrides the local wall-clock time the day-pruner
// targets, default 16:00. Per spec.md §6 "Environment", this must stay
// configurable by the embedding application rather than hard-coded.
func WithDayPruneTime(hour, minute int) Option {
	return func(b *OrderBook) {
		b.pruneHour = hour
		b.pruneMinute = minute
	}
}

// WithoutDayPruner disables the background pruning goroutine entirely.
// Mainly useful for unit tests that don't want a live goroutine ticking
// against the book's mutex.
func WithoutDayPruner() Option {
	return func(b *OrderBook) { b.prunerDisabled = true }
}
