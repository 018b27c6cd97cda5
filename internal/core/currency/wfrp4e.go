package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// wfrpDenominations lists Warhammer coinage from largest to smallest with the
// value of one coin in brass pennies.
var wfrpDenominations = []struct {
	key   string
	brass int64
}{
	{"gc", 240},
	{"ss", 12},
	{"bp", 1},
}

var brassPerGold = decimal.NewFromInt(240)

// Wfrp4e handles Warhammer Fantasy 4e coinage. Prices are quoted in gold
// crowns; comparisons and debits run in brass pennies.
type Wfrp4e struct {
	base
}

func NewWfrp4e() *Wfrp4e {
	return &Wfrp4e{}
}

func (*Wfrp4e) Ruleset() string {
	return "wfrp4e"
}

func (*Wfrp4e) PriceOf(item *domain.Item) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	rate := int64(240) // unlabeled prices are gold crowns
	for _, d := range wfrpDenominations {
		if strings.EqualFold(item.Price.Denomination, d.key) {
			rate = d.brass
			break
		}
	}
	return item.Price.Value.Mul(decimal.NewFromInt(rate)).Div(brassPerGold)
}

func (*Wfrp4e) FundsOf(actor *domain.Actor) domain.Funds {
	if actor == nil || actor.Funds == nil {
		return domain.Funds{}
	}
	return actor.Funds
}

func (*Wfrp4e) InsufficientFunds(cost decimal.Decimal, funds domain.Funds) bool {
	return totalBrass(funds).LessThan(cost.Mul(brassPerGold))
}

func (*Wfrp4e) Debit(funds domain.Funds, cost decimal.Decimal) {
	remaining := totalBrass(funds).Sub(cost.Mul(brassPerGold))
	for _, d := range wfrpDenominations {
		rate := decimal.NewFromInt(d.brass)
		if d.brass == 1 {
			funds[d.key] = remaining
			break
		}
		coins := remaining.Div(rate).Floor()
		funds[d.key] = coins
		remaining = remaining.Sub(coins.Mul(rate))
	}
}

func (*Wfrp4e) Credit(funds domain.Funds, amount decimal.Decimal) {
	funds["gc"] = funds.Get("gc").Add(amount)
}

func (*Wfrp4e) FormatPrice(amount decimal.Decimal) string {
	brass := amount.Mul(brassPerGold)
	gold := brass.Div(brassPerGold).Floor()
	brass = brass.Sub(gold.Mul(brassPerGold))
	silver := brass.Div(decimal.NewFromInt(12)).Floor()
	brass = brass.Sub(silver.Mul(decimal.NewFromInt(12)))

	parts := make([]string, 0, 3)
	if gold.IsPositive() {
		parts = append(parts, fmt.Sprintf("%s gc", gold))
	}
	if silver.IsPositive() {
		parts = append(parts, fmt.Sprintf("%s ss", silver))
	}
	if brass.IsPositive() || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%s bp", brass))
	}
	return strings.Join(parts, " ")
}

func totalBrass(funds domain.Funds) decimal.Decimal {
	total := decimal.Zero
	for _, d := range wfrpDenominations {
		total = total.Add(funds.Get(d.key).Mul(decimal.NewFromInt(d.brass)))
	}
	return total
}
