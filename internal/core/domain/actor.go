package domain

import "github.com/shopspring/decimal"

// Funds holds an actor's currency by denomination. Rulesets with a single
// currency use one well-known key.
type Funds map[string]decimal.Decimal

func (f Funds) Clone() Funds {
	c := make(Funds, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}

func (f Funds) Get(denomination string) decimal.Decimal {
	if v, ok := f[denomination]; ok {
		return v
	}
	return decimal.Zero
}

// Actor is a vendor or customer. Inventory and merchant flags live in the
// store, keyed by the actor ID.
type Actor struct {
	ID    string
	Name  string
	Funds Funds
}

// MerchantFlags are the per-actor settings this module keeps on a vendor.
// Nil modifier pointers mean "never configured" and fall back to defaults.
type MerchantFlags struct {
	PriceModifier *float64
	BuyModifier   *float64
	StackModifier *float64
	KeepDepleted  bool
	Infinity      bool
	Service       bool
}

// Default modifier values seeded the first time a merchant sheet is opened.
const (
	DefaultPriceModifier = 1.0
	DefaultBuyModifier   = 0.5
	DefaultStackModifier = 20.0
)
