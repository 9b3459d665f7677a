package model

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a currency amount to its smallest unit (pesewas),
// truncating anything below one unit.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Truncate(0).IntPart()
}

// PercentOf returns amount*percent/100 rounded half to even at two decimal places.
func PercentOf(amount decimal.Decimal, percent int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).RoundBank(2)
}
