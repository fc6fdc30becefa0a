package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/granadev/grana/internal/model"
	"github.com/shopspring/decimal"
)

// dateLayout is the only accepted statement date format (DD/MM/YYYY).
const dateLayout = "02/01/2006"

// currencyMarkers are stripped from amount tokens before normalization.
var currencyMarkers = []string{"R$", "US$", "BRL", "$", "€", "£"}

// ParseDate parses a DD/MM/YYYY token into a UTC calendar date.
// time.Parse rejects impossible dates such as 31/02/2024.
func ParseDate(token string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(token))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, token)
	}
	return t.UTC(), nil
}

// ParseAmount decodes a free-form amount token into a positive magnitude
// and the transaction kind implied by its sign (negative means expense).
func ParseAmount(token string) (decimal.Decimal, model.TransactionKind, error) {
	normalized, negative, err := NormalizeAmount(token)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("%w: %q", ErrInvalidAmount, token)
	}

	kind := model.KindIncome
	if negative {
		kind = model.KindExpense
	}
	return value.Abs(), kind, nil
}

// NormalizeAmount resolves the ambiguity between thousands and decimal
// uses of '.' and ',' and returns a canonical decimal string plus the
// sign. It is a pure function: already-canonical input passes through
// unchanged.
//
// Classification by separator counts:
//   - one comma, one or more dots: dots are thousands separators
//   - one comma, no dots: comma is the decimal point
//   - no commas, one dot: already canonical
//   - no commas, multiple dots: dots are thousands separators
//   - neither: integer
//   - multiple commas: the last comma is the decimal point, dots stripped
func NormalizeAmount(token string) (normalized string, negative bool, err error) {
	s := strings.TrimSpace(token)
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.Join(strings.Fields(s), "")

	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	if s == "" {
		return "", false, fmt.Errorf("%w: %q", ErrInvalidAmount, token)
	}

	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")

	switch {
	case commas == 1 && dots >= 1:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas == 0 && dots <= 1:
		// already canonical
	case commas == 0:
		s = strings.ReplaceAll(s, ".", "")
	default:
		// multiple commas: treat the last one as the decimal point
		s = strings.ReplaceAll(s, ".", "")
		last := strings.LastIndex(s, ",")
		s = strings.ReplaceAll(s[:last], ",", "") + "." + s[last+1:]
	}

	return s, negative, nil
}
