// Package rate keeps the live metal rate-per-gram.
//
// A Source holds the single mutable cell with last-known-good semantics. A
// Refresher owns all writes to it, pulling from a Feed on a fixed interval.
// Pricing code reads a value copy through Source.Snapshot once per pass and
// never observes later refreshes mid-pass.
package rate

import (
	"sync/atomic"

	"karat-desk/internal/clock"
	"karat-desk/internal/domain"

	"github.com/shopspring/decimal"
)

// Source holds the last known good metal rate
type Source struct {
	current  atomic.Pointer[domain.RateSnapshot]
	fallback decimal.Decimal
	clock    clock.Clock
}

// NewSource creates a Source. fallback is served only until the first
// successful update; a non-positive fallback disables it.
func NewSource(fallback decimal.Decimal, clk clock.Clock) *Source {
	if clk == nil {
		clk = clock.New()
	}
	return &Source{fallback: fallback, clock: clk}
}

// Snapshot returns a copy of the current rate, the fallback rate at cold
// start, or domain.ErrRateUnavailable when neither exists.
func (s *Source) Snapshot() (domain.RateSnapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return *snap, nil
	}

	if s.fallback.IsPositive() {
		return domain.RateSnapshot{
			RatePerGram: s.fallback,
			ReadAt:      s.clock.Now(),
			Source:      domain.RateSourceFallback,
		}, nil
	}

	return domain.RateSnapshot{}, domain.ErrRateUnavailable
}

// Update replaces the current rate. A non-positive rate is rejected and the
// previous value stays in effect.
func (s *Source) Update(snap domain.RateSnapshot) error {
	if !snap.RatePerGram.IsPositive() {
		return domain.InvalidInput("rate_per_gram", "must be greater than zero")
	}
	s.current.Store(&snap)
	return nil
}

// Ready reports whether a real (non-fallback) rate has been loaded
func (s *Source) Ready() bool {
	return s.current.Load() != nil
}
