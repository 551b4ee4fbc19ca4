package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "₹100", want: "100"},
		{in: "₹1,299", want: "1299"},
		{in: "INR 2,49,999.50", want: "249999.5"},
		{in: "-₹75", want: "-75"},
		{in: "450", want: "450"},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "%s parsed to %s", tc.in, got)
	}
}

func TestParseRejectsNonNumeric(t *testing.T) {
	for _, in := range []string{"", "₹", "free", "1.2.3", "--5"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrNotNumeric, in)
		assert.True(t, Amount(in).IsZero(), "Amount(%q) should default to zero", in)
	}
}

func TestParseIsIdempotentOnNumericStrings(t *testing.T) {
	first, err := Parse("1299")
	require.NoError(t, err)
	second, err := Parse(first.String())
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"0":        "₹0",
		"100":      "₹100",
		"999":      "₹999",
		"1000":     "₹1,000",
		"100000":   "₹1,00,000",
		"1234567":  "₹12,34,567",
		"1299.5":   "₹1,300",
		"1299.49":  "₹1,299",
		"-2500":    "-₹2,500",
		"-0.4":     "₹0",
		"12345678": "₹1,23,45,678",
	}
	for in, want := range cases {
		assert.Equal(t, want, Format(decimal.RequireFromString(in)), in)
	}
}

func TestFormatParseRoundTripIsStable(t *testing.T) {
	for _, s := range []string{"₹100", "₹1,299", "₹2,49,999", "₹45.60", "-₹12"} {
		once := Amount(s)
		twice := Amount(Format(once))
		thrice := Amount(Format(twice))
		assert.True(t, twice.Equal(thrice), "unstable round trip for %s: %s vs %s", s, twice, thrice)
	}
}

func TestDiscountPercent(t *testing.T) {
	pct, ok := DiscountPercent("₹1,499", "₹1,999")
	require.True(t, ok)
	assert.Equal(t, 25, pct)

	pct, ok = DiscountPercent("₹2,000", "₹3,000")
	require.True(t, ok)
	assert.Equal(t, 33, pct)

	_, ok = DiscountPercent("₹1,999", "₹1,999")
	assert.False(t, ok)

	_, ok = DiscountPercent("₹1,999", "")
	assert.False(t, ok)
}
