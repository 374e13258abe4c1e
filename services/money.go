package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies whose minor unit is not 1/100 of the major unit.
var minorUnitExponents = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0, "KRW": 0,
	"PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// Amounts must fit the transactions.amount column, numeric(15,3): twelve
// integer digits. At three decimals that is still below 2^53 minor units, so
// the value stays exact when the SDK serializes it through float64.
var amountLimit = decimal.New(1, 12)

// MinorUnitExponent returns how many decimal places the currency's minor unit has.
func MinorUnitExponent(currency string) int32 {
	if exp, ok := minorUnitExponents[strings.ToUpper(currency)]; ok {
		return exp
	}
	return 2
}

// ToMinorUnits converts amount to the currency's smallest unit, e.g. rupees
// to paise. The conversion is exact: an amount carrying more precision than
// the currency allows is rejected rather than rounded.
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	exp := MinorUnitExponent(currency)
	shifted := amount.Shift(exp)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places for %s", amount.String(), exp, currency)
	}
	if amount.Abs().GreaterThanOrEqual(amountLimit) {
		return 0, fmt.Errorf("amount %s is out of range", amount.String())
	}
	return shifted.IntPart(), nil
}

// FormatAmount renders amount with exactly the currency's number of decimals.
func FormatAmount(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(MinorUnitExponent(currency))
}
