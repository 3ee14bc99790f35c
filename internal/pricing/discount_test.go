package pricing

import (
	"errors"
	"testing"

	"karat-desk/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestApplyDiscount(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		spec   domain.DiscountSpec
		want   string
	}{
		{"no discount", "100", domain.DiscountSpec{}, "100"},
		{"fixed", "100", domain.DiscountSpec{Type: domain.DiscountFixed, Value: decimal.NewFromInt(5)}, "95"},
		{"fixed above amount", "100", domain.DiscountSpec{Type: domain.DiscountFixed, Value: decimal.NewFromInt(150)}, "0"},
		{"percentage", "200", domain.DiscountSpec{Type: domain.DiscountPercentage, Value: decimal.NewFromInt(10)}, "180"},
		{"percentage zero", "200", domain.DiscountSpec{Type: domain.DiscountPercentage, Value: decimal.Zero}, "200"},
		{"full percentage", "200", domain.DiscountSpec{Type: domain.DiscountPercentage, Value: decimal.NewFromInt(100)}, "0"},
		{"fractional percentage", "99.99", domain.DiscountSpec{Type: domain.DiscountPercentage, Value: decimal.RequireFromString("12.5")}, "87.49125"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ApplyDiscount(decimal.RequireFromString(tc.amount), tc.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestApplyDiscount_RejectsInvalidSpecs(t *testing.T) {
	cases := []struct {
		name   string
		amount decimal.Decimal
		spec   domain.DiscountSpec
	}{
		{"percentage above 100", decimal.NewFromInt(100), domain.DiscountSpec{Type: domain.DiscountPercentage, Value: decimal.RequireFromString("100.01")}},
		{"negative percentage", decimal.NewFromInt(100), domain.DiscountSpec{Type: domain.DiscountPercentage, Value: decimal.NewFromInt(-1)}},
		{"negative fixed", decimal.NewFromInt(100), domain.DiscountSpec{Type: domain.DiscountFixed, Value: decimal.NewFromInt(-10)}},
		{"negative amount", decimal.NewFromInt(-1), domain.DiscountSpec{Type: domain.DiscountFixed, Value: decimal.NewFromInt(1)}},
		{"unknown type", decimal.NewFromInt(100), domain.DiscountSpec{Type: "bogo", Value: decimal.NewFromInt(1)}},
		{"value without type", decimal.NewFromInt(100), domain.DiscountSpec{Value: decimal.NewFromInt(1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ApplyDiscount(tc.amount, tc.spec)
			if !errors.Is(err, domain.ErrInvalidDiscount) {
				t.Fatalf("expected ErrInvalidDiscount, got %v", err)
			}
		})
	}
}

// Feature: jewelry-pricing, Property 4: A 100% discount removes the making charge
func TestProperty_FullPercentageDiscountIsZero(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("percentage 100 always yields zero", prop.ForAll(
		func(amount decimal.Decimal) bool {
			got, err := ApplyDiscount(amount, domain.DiscountSpec{Type: domain.DiscountPercentage, Value: hundred})
			return err == nil && got.IsZero()
		},
		genCents(0, 100000000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: jewelry-pricing, Property 5: Fixed discounts clamp at zero
func TestProperty_FixedDiscountAboveAmountIsZero(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("fixed value >= amount always yields zero, never negative", prop.ForAll(
		func(amount decimal.Decimal, extra decimal.Decimal) bool {
			spec := domain.DiscountSpec{Type: domain.DiscountFixed, Value: amount.Add(extra)}
			got, err := ApplyDiscount(amount, spec)
			return err == nil && got.IsZero()
		},
		genCents(0, 100000000),
		genCents(0, 100000000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: jewelry-pricing, Property 6: Discounted amount stays within [0, amount]
func TestProperty_DiscountStaysInRange(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("any valid discount yields a value between zero and the amount", prop.ForAll(
		func(amount decimal.Decimal, value decimal.Decimal, percentage bool) bool {
			spec := domain.DiscountSpec{Type: domain.DiscountFixed, Value: value}
			if percentage {
				spec = domain.DiscountSpec{Type: domain.DiscountPercentage, Value: clamp(value, decimal.Zero, hundred)}
			}

			got, err := ApplyDiscount(amount, spec)
			if err != nil {
				t.Logf("FAIL: unexpected error: %v", err)
				return false
			}

			return !got.IsNegative() && got.LessThanOrEqual(amount)
		},
		genCents(0, 10000000),
		genCents(0, 20000),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
