package provider

import (
	"math"
	"strings"
)

// currencyExponents maps ISO 4217 alphabetic codes to their minor-unit
// exponent. Most currencies use 2; zero- and three-decimal currencies are
// listed explicitly. Membership doubles as currency validation.
var currencyExponents = map[string]int{
	"AED": 2, "AUD": 2, "BGN": 2, "BHD": 3, "BRL": 2, "CAD": 2,
	"CHF": 2, "CLP": 0, "CNY": 2, "CZK": 2, "DKK": 2, "EUR": 2,
	"GBP": 2, "HKD": 2, "HUF": 2, "IDR": 2, "ILS": 2, "INR": 2,
	"IQD": 3, "ISK": 0, "JOD": 3, "JPY": 0, "KRW": 0, "KWD": 3,
	"MXN": 2, "MYR": 2, "NOK": 2, "NZD": 2, "OMR": 3, "PHP": 2,
	"PLN": 2, "RON": 2, "RSD": 2, "RUB": 2, "SAR": 2, "SEK": 2,
	"SGD": 2, "THB": 2, "TND": 3, "TRY": 2, "TWD": 2, "UAH": 2,
	"USD": 2, "VND": 0, "XAF": 0, "XOF": 0, "ZAR": 2,
}

// CurrencyExponent returns the minor-unit exponent for an ISO 4217
// alphabetic code, or false when the code is not recognized.
func CurrencyExponent(code string) (int, bool) {
	exp, ok := currencyExponents[strings.ToUpper(code)]
	return exp, ok
}

// ToMinorUnits converts a major-unit amount to the integer minor-unit
// representation the gateway expects. No fractional minor units are ever
// sent; the value is rounded to the nearest integer.
func ToMinorUnits(amount float64, exponent int) int64 {
	return int64(math.Round(amount * math.Pow10(exponent)))
}

// FromMinorUnits converts an integer minor-unit amount back to major units.
func FromMinorUnits(minor int64, exponent int) float64 {
	return float64(minor) / math.Pow10(exponent)
}
