package pricing

import (
	"time"

	"karat-desk/internal/domain"

	"github.com/shopspring/decimal"
)

// NeedsRateOverrideConfirmation reports whether a user-entered rate differs
// from the live one. Any difference counts; there is no tolerance.
func NeedsRateOverrideConfirmation(original, proposed decimal.Decimal) bool {
	return !proposed.Equal(original)
}

// ManualRate wraps a confirmed user-entered rate for a single line. The shared
// live snapshot is left untouched.
func ManualRate(ratePerGram decimal.Decimal, at time.Time) domain.RateSnapshot {
	return domain.RateSnapshot{
		RatePerGram: ratePerGram,
		ReadAt:      at,
		Source:      domain.RateSourceManual,
	}
}
