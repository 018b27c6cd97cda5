package currency

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

func TestNew_RegistryLookup(t *testing.T) {
	tests := []struct {
		ruleset string
		want    string
	}{
		{"dnd5e", "dnd5e"},
		{"DnD5E", "dnd5e"},
		{" sfrpg ", "sfrpg"},
		{"swade", "swade"},
		{"wfrp4e", "wfrp4e"},
		{"pf2e", "generic"},
		{"", "generic"},
	}
	for _, tt := range tests {
		if got := New(tt.ruleset).Ruleset(); got != tt.want {
			t.Errorf("New(%q).Ruleset() = %q, want %q", tt.ruleset, got, tt.want)
		}
	}
}

func TestResolver_Memoizes(t *testing.T) {
	r := NewResolver("dnd5e")
	first := r.Calculator()
	second := r.Calculator()
	if first != second {
		t.Error("expected the same calculator instance across calls")
	}
	if first.Ruleset() != "dnd5e" {
		t.Errorf("expected dnd5e, got %s", first.Ruleset())
	}
}

func TestQuantityOf_NormalizesNearOverflow(t *testing.T) {
	calc := NewGeneric()

	item := &domain.Item{Name: "x", Quantity: 42}
	if got := calc.QuantityOf(item); got != 42 {
		t.Errorf("expected 42, got %v", got)
	}

	item.Quantity = domain.Unlimited
	if got := calc.QuantityOf(item); !domain.IsUnlimited(got) {
		t.Errorf("expected unlimited sentinel, got %v", got)
	}

	if got := calc.QuantityOf(nil); got != 0 {
		t.Errorf("expected 0 for nil item, got %v", got)
	}
}

func TestSetQuantity_ClampsNegative(t *testing.T) {
	calc := NewGeneric()
	item := &domain.Item{Name: "x", Quantity: 5}

	calc.SetQuantity(item, -3)
	if item.Quantity != 0 {
		t.Errorf("expected clamp to 0, got %v", item.Quantity)
	}
}

func TestGeneric_FundsLifecycle(t *testing.T) {
	calc := NewGeneric()
	funds := domain.Funds{CoinsKey: decimal.NewFromInt(10)}

	if calc.InsufficientFunds(decimal.NewFromInt(10), funds) {
		t.Error("exact cover should not be insufficient")
	}
	if !calc.InsufficientFunds(decimal.NewFromInt(11), funds) {
		t.Error("expected insufficient at 11")
	}

	calc.Debit(funds, decimal.NewFromInt(4))
	if !funds.Get(CoinsKey).Equal(decimal.NewFromInt(6)) {
		t.Errorf("expected 6 after debit, got %s", funds.Get(CoinsKey))
	}

	calc.Credit(funds, decimal.NewFromInt(2))
	if !funds.Get(CoinsKey).Equal(decimal.NewFromInt(8)) {
		t.Errorf("expected 8 after credit, got %s", funds.Get(CoinsKey))
	}
}

func TestGeneric_FundsOfNilActor(t *testing.T) {
	calc := NewGeneric()
	if funds := calc.FundsOf(nil); funds == nil {
		t.Error("expected empty funds, got nil")
	}
	if funds := calc.FundsOf(&domain.Actor{ID: "a"}); funds == nil {
		t.Error("expected empty funds for actor without currency, got nil")
	}
}
