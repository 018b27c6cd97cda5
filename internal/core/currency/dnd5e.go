package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// dndDenominations lists D&D 5e coinage from largest to smallest with the
// value of one coin in copper pieces.
var dndDenominations = []struct {
	key    string
	copper int64
}{
	{"pp", 1000},
	{"gp", 100},
	{"ep", 50},
	{"sp", 10},
	{"cp", 1},
}

var copperPerGold = decimal.NewFromInt(100)

// Dnd5e handles D&D 5e's five-denomination coinage. Prices are quoted in
// gold pieces; comparisons and debits run in copper to avoid losing change.
type Dnd5e struct {
	base
}

func NewDnd5e() *Dnd5e {
	return &Dnd5e{}
}

func (*Dnd5e) Ruleset() string {
	return "dnd5e"
}

func (*Dnd5e) PriceOf(item *domain.Item) decimal.Decimal {
	if item == nil {
		return decimal.Zero
	}
	rate := int64(100) // unlabeled prices are gold
	for _, d := range dndDenominations {
		if strings.EqualFold(item.Price.Denomination, d.key) {
			rate = d.copper
			break
		}
	}
	return item.Price.Value.Mul(decimal.NewFromInt(rate)).Div(copperPerGold)
}

func (*Dnd5e) FundsOf(actor *domain.Actor) domain.Funds {
	if actor == nil || actor.Funds == nil {
		return domain.Funds{}
	}
	return actor.Funds
}

func (*Dnd5e) InsufficientFunds(cost decimal.Decimal, funds domain.Funds) bool {
	return totalCopper(funds).LessThan(cost.Mul(copperPerGold))
}

// Debit converts the purse to copper, subtracts, and re-mints the remainder
// greedily from platinum down. Change is consolidated as a side effect.
func (*Dnd5e) Debit(funds domain.Funds, cost decimal.Decimal) {
	remaining := totalCopper(funds).Sub(cost.Mul(copperPerGold))
	for _, d := range dndDenominations {
		rate := decimal.NewFromInt(d.copper)
		if d.copper == 1 {
			funds[d.key] = remaining
			break
		}
		coins := remaining.Div(rate).Floor()
		funds[d.key] = coins
		remaining = remaining.Sub(coins.Mul(rate))
	}
}

func (*Dnd5e) Credit(funds domain.Funds, amount decimal.Decimal) {
	funds["gp"] = funds.Get("gp").Add(amount)
}

func (*Dnd5e) FormatPrice(amount decimal.Decimal) string {
	copper := amount.Mul(copperPerGold)
	gold := copper.Div(copperPerGold).Floor()
	copper = copper.Sub(gold.Mul(copperPerGold))
	silver := copper.Div(decimal.NewFromInt(10)).Floor()
	copper = copper.Sub(silver.Mul(decimal.NewFromInt(10)))

	parts := make([]string, 0, 3)
	if gold.IsPositive() {
		parts = append(parts, fmt.Sprintf("%s gp", gold))
	}
	if silver.IsPositive() {
		parts = append(parts, fmt.Sprintf("%s sp", silver))
	}
	if copper.IsPositive() || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%s cp", copper))
	}
	return strings.Join(parts, " ")
}

func totalCopper(funds domain.Funds) decimal.Decimal {
	total := decimal.Zero
	for _, d := range dndDenominations {
		total = total.Add(funds.Get(d.key).Mul(decimal.NewFromInt(d.copper)))
	}
	return total
}
