// Package currency holds the supported-currency registry and conversion
// helpers. The preferred currency is always an explicit parameter; this
// package keeps no session or locale state.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Info describes one supported currency.
type Info struct {
	Code   string
	Symbol string
	Name   string
}

// registry is the supported set. Codes are ISO 4217.
var registry = map[string]Info{
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound"},
	"QAR": {Code: "QAR", Symbol: "QR", Name: "Qatari Riyal"},
	"AED": {Code: "AED", Symbol: "د.إ", Name: "UAE Dirham"},
	"SAR": {Code: "SAR", Symbol: "SR", Name: "Saudi Riyal"},
	"BHD": {Code: "BHD", Symbol: "BD", Name: "Bahraini Dinar"},
	"KWD": {Code: "KWD", Symbol: "KD", Name: "Kuwaiti Dinar"},
	"OMR": {Code: "OMR", Symbol: "OMR", Name: "Omani Rial"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	"CNY": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	"CHF": {Code: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar"},
	"HKD": {Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar"},
	"SEK": {Code: "SEK", Symbol: "kr", Name: "Swedish Krona"},
	"NOK": {Code: "NOK", Symbol: "kr", Name: "Norwegian Krone"},
	"DKK": {Code: "DKK", Symbol: "kr", Name: "Danish Krone"},
	"ZAR": {Code: "ZAR", Symbol: "R", Name: "South African Rand"},
	"MYR": {Code: "MYR", Symbol: "RM", Name: "Malaysian Ringgit"},
	"THB": {Code: "THB", Symbol: "฿", Name: "Thai Baht"},
	"PKR": {Code: "PKR", Symbol: "₨", Name: "Pakistani Rupee"},
	"BDT": {Code: "BDT", Symbol: "৳", Name: "Bangladeshi Taka"},
	"LKR": {Code: "LKR", Symbol: "Rs", Name: "Sri Lankan Rupee"},
	"NPR": {Code: "NPR", Symbol: "Rs", Name: "Nepalese Rupee"},
}

// usdRates are static USD-based rates for offline conversion. Gulf
// currencies are USD-pegged, so these stay stable; the rest are
// approximations refreshed manually.
var usdRates = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"INR": decimal.NewFromFloat(83.2),
	"EUR": decimal.NewFromFloat(0.92),
	"GBP": decimal.NewFromFloat(0.79),
	"QAR": decimal.NewFromFloat(3.64),
	"AED": decimal.NewFromFloat(3.6725),
	"SAR": decimal.NewFromFloat(3.75),
	"BHD": decimal.NewFromFloat(0.376),
	"KWD": decimal.NewFromFloat(0.307),
	"OMR": decimal.NewFromFloat(0.385),
	"JPY": decimal.NewFromFloat(149.0),
	"CNY": decimal.NewFromFloat(7.19),
	"CAD": decimal.NewFromFloat(1.36),
	"AUD": decimal.NewFromFloat(1.52),
	"CHF": decimal.NewFromFloat(0.88),
	"SGD": decimal.NewFromFloat(1.34),
	"HKD": decimal.NewFromFloat(7.82),
	"SEK": decimal.NewFromFloat(10.4),
	"NOK": decimal.NewFromFloat(10.6),
	"DKK": decimal.NewFromFloat(6.87),
	"ZAR": decimal.NewFromFloat(18.2),
	"MYR": decimal.NewFromFloat(4.47),
	"THB": decimal.NewFromFloat(34.6),
	"PKR": decimal.NewFromFloat(278.0),
	"BDT": decimal.NewFromFloat(121.0),
	"LKR": decimal.NewFromFloat(298.0),
	"NPR": decimal.NewFromFloat(133.5),
}

// Supported reports whether code is a recognized 3-letter currency code.
func Supported(code string) bool {
	_, ok := registry[code]
	return ok
}

// Get returns the Info for a currency code.
func Get(code string) (Info, bool) {
	info, ok := registry[code]
	return info, ok
}

// Codes returns all supported currency codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for c := range registry {
		codes = append(codes, c)
	}
	return codes
}

// Format renders an amount with the currency's symbol, e.g. "₹1500.00".
// Unknown codes fall back to "CODE amount".
func Format(amount decimal.Decimal, code string) string {
	info, ok := registry[code]
	if !ok {
		return fmt.Sprintf("%s %s", code, amount.StringFixed(2))
	}
	return info.Symbol + amount.StringFixed(2)
}

// Convert translates an amount between two supported currencies using the
// static USD cross rates.
func Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok := usdRates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for currency %q", from)
	}
	toRate, ok := usdRates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for currency %q", to)
	}
	// amount / fromRate = USD; USD * toRate = target.
	return amount.Div(fromRate).Mul(toRate).Round(2), nil
}
