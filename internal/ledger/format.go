package ledger

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders an amount as a localized currency string with exactly
// two fractional digits, e.g. "$4,700.00" or "-$300.00". Only display
// is rounded; internal arithmetic keeps full precision.
func Format(amount decimal.Decimal) string {
	minor := amount.Shift(2).Round(0).IntPart()
	return money.New(minor, money.USD).Display()
}
