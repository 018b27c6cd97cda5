package currency

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// Calculator is the per-ruleset policy for reading and writing an item's
// price and quantity fields and an actor's currency. Implementations are
// stateless per invocation.
type Calculator interface {
	// Ruleset returns the identifier this calculator serves.
	Ruleset() string

	// PriceOf extracts the item's sale price in the ruleset's native unit.
	PriceOf(item *domain.Item) decimal.Decimal

	// QuantityOf returns current stock, normalized to the unlimited sentinel
	// when the stored value is in the near-overflow range.
	QuantityOf(item *domain.Item) float64

	// SetQuantity writes quantity back, preserving the rest of the item.
	SetQuantity(item *domain.Item, quantity float64)

	// FundsOf reads the actor's currency, never nil.
	FundsOf(actor *domain.Actor) domain.Funds

	// InsufficientFunds reports whether funds cannot cover cost.
	InsufficientFunds(cost decimal.Decimal, funds domain.Funds) bool

	// Debit removes cost from funds in place.
	Debit(funds domain.Funds, cost decimal.Decimal)

	// Credit adds amount to funds in place.
	Credit(funds domain.Funds, amount decimal.Decimal)

	// FormatPrice renders an amount for chat and logs.
	FormatPrice(amount decimal.Decimal) string
}

var factories = map[string]func() Calculator{
	"dnd5e":  func() Calculator { return NewDnd5e() },
	"sfrpg":  func() Calculator { return NewSfrpg() },
	"swade":  func() Calculator { return NewSwade() },
	"wfrp4e": func() Calculator { return NewWfrp4e() },
}

// New returns the calculator registered for a ruleset identifier, matched
// case-insensitively. Unknown identifiers fall back to the generic
// calculator, which treats price, quantity and currency as plain numbers.
func New(ruleset string) Calculator {
	if factory, ok := factories[strings.ToLower(strings.TrimSpace(ruleset))]; ok {
		return factory()
	}
	return NewGeneric()
}

// Resolver memoizes the active ruleset's calculator for the lifetime of a
// session. The ruleset cannot change at runtime, so the lookup runs once.
type Resolver struct {
	ruleset string
	once    sync.Once
	calc    Calculator
}

func NewResolver(ruleset string) *Resolver {
	return &Resolver{ruleset: ruleset}
}

func (r *Resolver) Calculator() Calculator {
	r.once.Do(func() {
		r.calc = New(r.ruleset)
	})
	return r.calc
}

// base carries the quantity field semantics shared by every ruleset.
type base struct{}

func (base) QuantityOf(item *domain.Item) float64 {
	if item == nil {
		return 0
	}
	if domain.IsUnlimited(item.Quantity) {
		return domain.Unlimited
	}
	return item.Quantity
}

func (base) SetQuantity(item *domain.Item, quantity float64) {
	if item == nil {
		return
	}
	if quantity < 0 {
		quantity = 0
	}
	item.Quantity = quantity
}
