package currency

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// CreditsKey is Starfinder's single currency field.
const CreditsKey = "credits"

// Sfrpg handles Starfinder credits.
type Sfrpg struct {
	base
}

func NewSfrpg() *Sfrpg {
	return &Sfrpg{}
}

func (*Sfrpg) Ruleset() string {
	return "sfrpg"
}

func (*Sfrpg) PriceOf(item *domain.Item) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	return item.Price.Value
}

func (*Sfrpg) FundsOf(actor *domain.Actor) domain.Funds {
	if actor == nil || actor.Funds == nil {
		return domain.Funds{}
	}
	return actor.Funds
}

func (*Sfrpg) InsufficientFunds(cost decimal.Decimal, funds domain.Funds) bool {
	return funds.Get(CreditsKey).LessThan(cost)
}

func (*Sfrpg) Debit(funds domain.Funds, cost decimal.Decimal) {
	funds[CreditsKey] = funds.Get(CreditsKey).Sub(cost)
}

func (*Sfrpg) Credit(funds domain.Funds, amount decimal.Decimal) {
	funds[CreditsKey] = funds.Get(CreditsKey).Add(amount)
}

func (*Sfrpg) FormatPrice(amount decimal.Decimal) string {
	return fmt.Sprintf("%s credits", amount)
}
