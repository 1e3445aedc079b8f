package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("INR"))
	assert.True(t, Supported("USD"))
	assert.False(t, Supported("XYZ"))
	assert.False(t, Supported("inr")) // case-sensitive 3-letter codes
	assert.False(t, Supported(""))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹1500.00", Format(decimal.NewFromInt(1500), "INR"))
	assert.Equal(t, "$9.99", Format(decimal.NewFromFloat(9.99), "USD"))
	// Unknown code falls back to code prefix.
	assert.Equal(t, "XYZ 5.00", Format(decimal.NewFromInt(5), "XYZ"))
}

func TestConvert_Identity(t *testing.T) {
	amt := decimal.NewFromFloat(123.45)
	got, err := Convert(amt, "INR", "INR")
	require.NoError(t, err)
	assert.True(t, amt.Equal(got))
}

func TestConvert_Pegged(t *testing.T) {
	// QAR is pegged at 3.64/USD.
	got, err := Convert(decimal.NewFromFloat(3.64), "QAR", "USD")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1)), "got %s", got)
}

func TestConvert_UnknownCurrency(t *testing.T) {
	_, err := Convert(decimal.NewFromInt(1), "XYZ", "USD")
	assert.Error(t, err)
	_, err = Convert(decimal.NewFromInt(1), "USD", "XYZ")
	assert.Error(t, err)
}

func TestEveryRegisteredCurrencyHasRate(t *testing.T) {
	for _, code := range Codes() {
		_, ok := usdRates[code]
		assert.True(t, ok, "missing rate for %s", code)
	}
}
