package service

import (
	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/currency"
	"github.com/avelien/shopkeeper/internal/core/domain"
)

// quote computes the total charged for quantity units of an item.
//
// The effective unit price is the ruleset base price scaled by the seller's
// modifier and rounded to two decimal places. A negative unit price clamps to
// zero so a transaction can never pay out the charged side.
func quote(calc currency.Calculator, item *domain.Item, quantity, modifier float64) decimal.Decimal {
	unit := calc.PriceOf(item).Mul(decimal.NewFromFloat(modifier)).Round(2)
	if unit.IsNegative() {
		unit = decimal.Zero
	}
	return unit.Mul(decimal.NewFromFloat(quantity))
}
