package port

import (
	"context"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// InventoryStore is the host's actor-document store. It is the single source
// of truth for actors, their item collections and their merchant flags; the
// host serializes concurrent writes to the same actor record.
type InventoryStore interface {
	// GetActor retrieves an actor by ID, nil when unknown.
	GetActor(ctx context.Context, actorID string) (*domain.Actor, error)

	// GetItem retrieves one listing, nil when the item does not exist.
	GetItem(ctx context.Context, actorID, itemID string) (*domain.Item, error)

	// ListItems returns the actor's full inventory in listing order.
	ListItems(ctx context.Context, actorID string) ([]domain.Item, error)

	// CreateItems adds new listings as one batch.
	CreateItems(ctx context.Context, actorID string, items []*domain.Item) error

	// UpdateQuantities applies partial quantity writes as one batch.
	UpdateQuantities(ctx context.Context, actorID string, updates []domain.QuantityUpdate) error

	// UpdatePrice rewrites a single listing's price.
	UpdatePrice(ctx context.Context, actorID, itemID string, price domain.Price) error

	// DeleteItems removes listings as one batch.
	DeleteItems(ctx context.Context, actorID string, itemIDs []string) error

	// SaveFunds persists an actor's currency.
	SaveFunds(ctx context.Context, actorID string, funds domain.Funds) error

	// GetFlags reads the actor's merchant flags; never nil for a known actor.
	GetFlags(ctx context.Context, actorID string) (*domain.MerchantFlags, error)

	// SaveFlags persists the actor's merchant flags.
	SaveFlags(ctx context.Context, actorID string, flags *domain.MerchantFlags) error

	// ResolveToken maps a scene token to its actor ID, "" when the token is
	// not present on the active scene.
	ResolveToken(ctx context.Context, tokenID string) (string, error)
}
