package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/currency"
	"github.com/avelien/shopkeeper/internal/core/domain"
	"github.com/avelien/shopkeeper/internal/port"
)

// fundsLedger applies currency mutations with copy-then-commit semantics:
// callers pass a cloned Funds, the ledger mutates the clone and persists it
// in one step. The live actor currency is never touched on failure paths.
type fundsLedger struct {
	calc  currency.Calculator
	store port.InventoryStore
}

// Validate reports whether funds cover cost.
func (l fundsLedger) Validate(cost decimal.Decimal, funds domain.Funds) bool {
	return !l.calc.InsufficientFunds(cost, funds)
}

// Debit removes cost from the working copy and persists it.
func (l fundsLedger) Debit(ctx context.Context, actorID string, funds domain.Funds, cost decimal.Decimal) error {
	l.calc.Debit(funds, cost)
	if err := l.store.SaveFunds(ctx, actorID, funds); err != nil {
		return fmt.Errorf("persist debit: %w", err)
	}
	return nil
}

// Credit adds amount to the working copy and persists it.
func (l fundsLedger) Credit(ctx context.Context, actorID string, funds domain.Funds, amount decimal.Decimal) error {
	l.calc.Credit(funds, amount)
	if err := l.store.SaveFunds(ctx, actorID, funds); err != nil {
		return fmt.Errorf("persist credit: %w", err)
	}
	return nil
}
