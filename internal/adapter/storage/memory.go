package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// MemoryStore is an in-memory InventoryStore. It stands in for the host's
// actor-document store in tests and in the standalone server's demo mode.
type MemoryStore struct {
	mu     sync.Mutex
	actors map[string]*domain.Actor
	items  map[string][]*domain.Item
	flags  map[string]*domain.MerchantFlags
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		actors: make(map[string]*domain.Actor),
		items:  make(map[string][]*domain.Item),
		flags:  make(map[string]*domain.MerchantFlags),
		tokens: make(map[string]string),
	}
}

// PutActor seeds or replaces an actor record.
func (m *MemoryStore) PutActor(actor *domain.Actor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *actor
	c.Funds = actor.Funds.Clone()
	m.actors[actor.ID] = &c
}

// PutItems seeds listings at the end of an actor's inventory.
func (m *MemoryStore) PutItems(actorID string, items ...*domain.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		m.items[actorID] = append(m.items[actorID], it.Clone())
	}
}

// PutFlags seeds an actor's merchant flags.
func (m *MemoryStore) PutFlags(actorID string, flags *domain.MerchantFlags) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[actorID] = cloneFlags(flags)
}

// PutToken binds a scene token to an actor.
func (m *MemoryStore) PutToken(tokenID, actorID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tokenID] = actorID
}

func (m *MemoryStore) GetActor(ctx context.Context, actorID string) (*domain.Actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, ok := m.actors[actorID]
	if !ok {
		return nil, nil
	}
	c := *actor
	c.Funds = actor.Funds.Clone()
	return &c, nil
}

func (m *MemoryStore) GetItem(ctx context.Context, actorID, itemID string) (*domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items[actorID] {
		if it.ID == itemID {
			return it.Clone(), nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) ListItems(ctx context.Context, actorID string) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Item, 0, len(m.items[actorID]))
	for _, it := range m.items[actorID] {
		out = append(out, *it)
	}
	return out, nil
}

func (m *MemoryStore) CreateItems(ctx context.Context, actorID string, items []*domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		m.items[actorID] = append(m.items[actorID], it.Clone())
	}
	return nil
}

func (m *MemoryStore) UpdateQuantities(ctx context.Context, actorID string, updates []domain.QuantityUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		found := false
		for _, it := range m.items[actorID] {
			if it.ID == u.ItemID {
				it.Quantity = u.Quantity
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("update quantity: unknown item %s", u.ItemID)
		}
	}
	return nil
}

func (m *MemoryStore) UpdatePrice(ctx context.Context, actorID, itemID string, price domain.Price) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items[actorID] {
		if it.ID == itemID {
			it.Price = price
			return nil
		}
	}
	return fmt.Errorf("update price: unknown item %s", itemID)
}

func (m *MemoryStore) DeleteItems(ctx context.Context, actorID string, itemIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	drop := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		drop[id] = true
	}
	kept := m.items[actorID][:0]
	for _, it := range m.items[actorID] {
		if !drop[it.ID] {
			kept = append(kept, it)
		}
	}
	m.items[actorID] = kept
	return nil
}

func (m *MemoryStore) SaveFunds(ctx context.Context, actorID string, funds domain.Funds) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor, ok := m.actors[actorID]
	if !ok {
		return fmt.Errorf("save funds: unknown actor %s", actorID)
	}
	actor.Funds = funds.Clone()
	return nil
}

func (m *MemoryStore) GetFlags(ctx context.Context, actorID string) (*domain.MerchantFlags, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if flags, ok := m.flags[actorID]; ok {
		return cloneFlags(flags), nil
	}
	return &domain.MerchantFlags{}, nil
}

func (m *MemoryStore) SaveFlags(ctx context.Context, actorID string, flags *domain.MerchantFlags) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[actorID] = cloneFlags(flags)
	return nil
}

func (m *MemoryStore) ResolveToken(ctx context.Context, tokenID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[tokenID], nil
}

func cloneFlags(flags *domain.MerchantFlags) *domain.MerchantFlags {
	if flags == nil {
		return nil
	}
	c := *flags
	c.PriceModifier = clonePtr(flags.PriceModifier)
	c.BuyModifier = clonePtr(flags.BuyModifier)
	c.StackModifier = clonePtr(flags.StackModifier)
	return &c
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
