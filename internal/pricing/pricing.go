// Package pricing converts between display prices such as "₹1,299" and
// numeric amounts.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const rupee = "₹"

// ErrNotNumeric is returned when a display price holds no parseable number.
var ErrNotNumeric = errors.New("price is not numeric")

// Parse strips every character other than digits, '.' and '-' and parses the
// remainder. Grouping separators and currency symbols are discarded.
func Parse(display string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, display)
	if cleaned == "" {
		return decimal.Zero, ErrNotNumeric
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	return value, nil
}

// Amount parses display and falls back to zero for arithmetic use.
func Amount(display string) decimal.Decimal {
	value, err := Parse(display)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// Format renders value as whole rupees with Indian digit grouping, e.g.
// 1234567 -> "₹12,34,567". Halves round away from zero.
func Format(value decimal.Decimal) string {
	rounded := value.Round(0)
	negative := rounded.IsNegative()
	digits := rounded.Abs().String()

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(rupee)
	b.WriteString(groupIndian(digits))
	return b.String()
}

// DiscountPercent reports the whole-percent markdown of price against
// originalPrice. ok is false when there is no markdown.
func DiscountPercent(price, originalPrice string) (percent int, ok bool) {
	if strings.TrimSpace(originalPrice) == "" {
		return 0, false
	}
	original := Amount(originalPrice)
	current := Amount(price)
	if !original.GreaterThan(current) || !original.IsPositive() {
		return 0, false
	}
	pct := original.Sub(current).Div(original).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart()), true
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}
