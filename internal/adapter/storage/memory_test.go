package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

func TestMemoryStore_ItemLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutActor(&domain.Actor{ID: "a", Name: "A", Funds: domain.Funds{}})

	if err := store.CreateItems(ctx, "a", []*domain.Item{
		{ID: "i1", Name: "Torch", Price: domain.Price{Value: decimal.NewFromInt(1)}, Quantity: 10},
		{ID: "i2", Name: "Rope", Price: domain.Price{Value: decimal.NewFromInt(5)}, Quantity: 2},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	item, err := store.GetItem(ctx, "a", "i1")
	if err != nil || item == nil || item.Name != "Torch" {
		t.Fatalf("get item: %+v, %v", item, err)
	}

	// Returned snapshots must not alias store state.
	item.Quantity = 999
	again, _ := store.GetItem(ctx, "a", "i1")
	if again.Quantity != 10 {
		t.Errorf("expected stored quantity unchanged, got %v", again.Quantity)
	}

	if err := store.UpdateQuantities(ctx, "a", []domain.QuantityUpdate{{ItemID: "i1", Quantity: 7}}); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := store.GetItem(ctx, "a", "i1")
	if updated.Quantity != 7 {
		t.Errorf("expected 7, got %v", updated.Quantity)
	}

	if err := store.UpdateQuantities(ctx, "a", []domain.QuantityUpdate{{ItemID: "nope", Quantity: 1}}); err == nil {
		t.Error("expected error for unknown item")
	}

	if err := store.DeleteItems(ctx, "a", []string{"i2"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ := store.ListItems(ctx, "a")
	if len(items) != 1 || items[0].ID != "i1" {
		t.Errorf("expected only i1 left, got %+v", items)
	}
}

func TestMemoryStore_FundsAndFlags(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutActor(&domain.Actor{ID: "a", Name: "A", Funds: domain.Funds{"coins": decimal.NewFromInt(10)}})

	if err := store.SaveFunds(ctx, "a", domain.Funds{"coins": decimal.NewFromInt(4)}); err != nil {
		t.Fatalf("save funds: %v", err)
	}
	actor, _ := store.GetActor(ctx, "a")
	if !actor.Funds.Get("coins").Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected 4 coins, got %s", actor.Funds.Get("coins"))
	}

	if err := store.SaveFunds(ctx, "missing", domain.Funds{}); err == nil {
		t.Error("expected error for unknown actor")
	}

	flags, err := store.GetFlags(ctx, "a")
	if err != nil || flags == nil {
		t.Fatalf("expected empty flags for unconfigured actor, got %v, %v", flags, err)
	}

	mod := 1.5
	if err := store.SaveFlags(ctx, "a", &domain.MerchantFlags{PriceModifier: &mod, Service: true}); err != nil {
		t.Fatalf("save flags: %v", err)
	}
	flags, _ = store.GetFlags(ctx, "a")
	if flags.PriceModifier == nil || *flags.PriceModifier != 1.5 || !flags.Service {
		t.Errorf("expected saved flags back, got %+v", flags)
	}

	// Flag snapshots must not alias store state either.
	*flags.PriceModifier = 9
	again, _ := store.GetFlags(ctx, "a")
	if *again.PriceModifier != 1.5 {
		t.Errorf("expected stored modifier unchanged, got %v", *again.PriceModifier)
	}
}

func TestMemoryStore_ResolveToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutToken("t1", "a")

	if id, _ := store.ResolveToken(ctx, "t1"); id != "a" {
		t.Errorf("expected a, got %q", id)
	}
	if id, _ := store.ResolveToken(ctx, "t2"); id != "" {
		t.Errorf("expected empty for unknown token, got %q", id)
	}
}
