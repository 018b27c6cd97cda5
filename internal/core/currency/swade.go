package currency

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// WealthKey is the single wealth field in Savage Worlds.
const WealthKey = "currency"

// Swade handles Savage Worlds' flat monetary wealth.
type Swade struct {
	base
}

func NewSwade() *Swade {
	return &Swade{}
}

func (*Swade) Ruleset() string {
	return "swade"
}

func (*Swade) PriceOf(item *domain.Item) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	return item.Price.Value
}

func (*Swade) FundsOf(actor *domain.Actor) domain.Funds {
	if actor == nil || actor.Funds == nil {
		return domain.Funds{}
	}
	return actor.Funds
}

func (*Swade) InsufficientFunds(cost decimal.Decimal, funds domain.Funds) bool {
	return funds.Get(WealthKey).LessThan(cost)
}

func (*Swade) Debit(funds domain.Funds, cost decimal.Decimal) {
	funds[WealthKey] = funds.Get(WealthKey).Sub(cost)
}

func (*Swade) Credit(funds domain.Funds, amount decimal.Decimal) {
	funds[WealthKey] = funds.Get(WealthKey).Add(amount)
}

func (*Swade) FormatPrice(amount decimal.Decimal) string {
	return fmt.Sprintf("$%s", amount)
}
