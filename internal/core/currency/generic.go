package currency

import (
	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// CoinsKey is the single denomination the generic calculator uses.
const CoinsKey = "coins"

// Generic is the fallback calculator for rulesets without a dedicated
// implementation. Price, quantity and currency are plain numbers.
type Generic struct {
	base
}

func NewGeneric() *Generic {
	return &Generic{}
}

func (*Generic) Ruleset() string {
	return "generic"
}

func (*Generic) PriceOf(item *domain.Item) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	return item.Price.Value
}

func (*Generic) FundsOf(actor *domain.Actor) domain.Funds {
	if actor == nil || actor.Funds == nil {
		return domain.Funds{}
	}
	return actor.Funds
}

func (*Generic) InsufficientFunds(cost decimal.Decimal, funds domain.Funds) bool {
	return funds.Get(CoinsKey).LessThan(cost)
}

func (*Generic) Debit(funds domain.Funds, cost decimal.Decimal) {
	funds[CoinsKey] = funds.Get(CoinsKey).Sub(cost)
}

func (*Generic) Credit(funds domain.Funds, amount decimal.Decimal) {
	funds[CoinsKey] = funds.Get(CoinsKey).Add(amount)
}

func (*Generic) FormatPrice(amount decimal.Decimal) string {
	return amount.String()
}
