package pricing

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	ZAR Currency = "ZAR"
	USD Currency = "USD"
)

var (
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidRate     = errors.New("invalid exchange rate")
)

const Free = "Free"

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case ZAR, USD:
		return c, nil
	default:
		return "", ErrUnknownCurrency
	}
}

// ParseAmount accepts a non-negative decimal string such as "1500" or "899.50"
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Convert turns a ZAR price into the display currency. rate is ZAR per USD.
func Convert(zar decimal.Decimal, to Currency, rate float64) (decimal.Decimal, error) {
	switch to {
	case ZAR:
		return zar.Round(2), nil
	case USD:
		if rate <= 0 {
			return decimal.Zero, ErrInvalidRate
		}
		return zar.Div(decimal.NewFromFloat(rate)).Round(2), nil
	default:
		return decimal.Zero, ErrUnknownCurrency
	}
}

// Format renders an amount already in currency c:
// "R 1,500.00" for rand and "$83.33" for dollars.
func Format(amount decimal.Decimal, c Currency) string {
	s := groupThousands(amount.StringFixed(2))
	if c == USD {
		return "$" + s
	}
	return "R " + s
}

// Display converts a ZAR price into c and formats it. Only a zero price
// is shown as Free, a small price that rounds to 0.00 is not.
func Display(zar decimal.Decimal, c Currency, rate float64) (decimal.Decimal, string, error) {
	if zar.IsZero() {
		return decimal.Zero, Free, nil
	}
	converted, err := Convert(zar, c, rate)
	if err != nil {
		return decimal.Zero, "", err
	}
	return converted, Format(converted, c), nil
}

// ToCents is the total the booking modal charges: price x guests in cents.
// Totals that do not fit in int64 cents are rejected with ErrInvalidAmount.
func ToCents(price decimal.Decimal, guests int) (int64, error) {
	if guests < 1 {
		guests = 1
	}
	cents := price.Mul(decimal.NewFromInt(int64(guests))).Mul(hundred).Round(0)
	if cents.IsNegative() || cents.GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
