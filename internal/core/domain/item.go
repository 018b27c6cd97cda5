package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Unlimited is the stock sentinel for listings that never deplete.
const Unlimited = math.MaxFloat64

// unlimitedThreshold tolerates near-overflow quantities written by older
// sheets instead of the exact sentinel.
const unlimitedThreshold = math.MaxFloat64 * 0.999

// IsUnlimited reports whether a stored quantity is in the sentinel range.
func IsUnlimited(quantity float64) bool {
	return quantity >= unlimitedThreshold
}

// Price is an amount expressed in one of the active ruleset's denominations.
type Price struct {
	Value        decimal.Decimal
	Denomination string
}

// Item is a single stock listing in an actor's inventory. ID and Name are
// fixed for the lifetime of the listing; Quantity is the only mutable field.
type Item struct {
	ID       string
	Name     string
	Price    Price
	Quantity float64
}

func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
