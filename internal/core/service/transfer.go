package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// MoveItems transfers stock between two inventories, merging into an existing
// same-named stack on the destination side when one exists.
//
// Writes are applied as four batches in fixed order: source deletes, source
// quantity updates, destination creates, destination quantity updates.
// Deletes run before updates so a removed listing is never written again, and
// destination writes run after all source writes so merge targets are not
// read stale. Returned results carry the transferred snapshot and the
// quantity actually moved per request, which may be less than asked for.
func (s *MerchantService) MoveItems(ctx context.Context, sourceID, destID string, requests []domain.MoveRequest, deleteDepleted bool) ([]domain.MoveResult, error) {
	calc := s.resolver.Calculator()
	allowNoGM := s.settings.AllowNoGM(ctx)

	sourceFlags, err := s.store.GetFlags(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("read source flags: %w", err)
	}
	infinity := sourceFlags != nil && sourceFlags.Infinity

	var (
		deletes     []string
		updates     []domain.QuantityUpdate
		additions   []*domain.Item
		destUpdates []domain.QuantityUpdate
		results     []domain.MoveResult
	)

	for _, req := range requests {
		quantity := req.Quantity

		item, err := s.store.GetItem(ctx, sourceID, req.ItemID)
		if err != nil {
			return nil, fmt.Errorf("lookup source item %s: %w", req.ItemID, err)
		}
		if item == nil {
			// A lookup miss carries no stock to clamp against, and no
			// transferred copy can be built from it.
			return results, fmt.Errorf("source item %s: %w", req.ItemID, ErrItemNotFound)
		}

		available := calc.QuantityOf(item)
		if available < quantity {
			quantity = available
		}
		remaining := available - quantity
		if domain.IsUnlimited(available) || infinity {
			remaining = domain.Unlimited
		}

		if remaining == 0 && deleteDepleted && !allowNoGM {
			deletes = append(deletes, req.ItemID)
		} else {
			updates = append(updates, domain.QuantityUpdate{ItemID: req.ItemID, Quantity: remaining})
		}

		// The transferred copy is stamped with the moved quantity, not the
		// remainder, and gets its own identity in the destination.
		moved := item.Clone()
		moved.ID = uuid.NewString()
		calc.SetQuantity(moved, quantity)
		results = append(results, domain.MoveResult{Item: moved, Quantity: quantity})

		destItem, err := s.findByName(ctx, destID, moved.Name)
		if err != nil {
			return nil, err
		}
		if destItem == nil {
			additions = append(additions, moved)
			continue
		}

		merged := calc.QuantityOf(destItem) + calc.QuantityOf(moved)
		if domain.IsUnlimited(calc.QuantityOf(destItem)) || domain.IsUnlimited(quantity) {
			merged = domain.Unlimited
		}
		if merged < 0 {
			merged = 0
		}
		destUpdates = append(destUpdates, domain.QuantityUpdate{ItemID: destItem.ID, Quantity: merged})
	}

	if len(deletes) > 0 {
		if err := s.store.DeleteItems(ctx, sourceID, deletes); err != nil {
			return nil, fmt.Errorf("delete depleted listings: %w", err)
		}
	}
	if len(updates) > 0 {
		if err := s.store.UpdateQuantities(ctx, sourceID, updates); err != nil {
			return nil, fmt.Errorf("update source quantities: %w", err)
		}
	}
	if len(additions) > 0 {
		if err := s.store.CreateItems(ctx, destID, additions); err != nil {
			return nil, fmt.Errorf("create destination listings: %w", err)
		}
	}
	if len(destUpdates) > 0 {
		if err := s.store.UpdateQuantities(ctx, destID, destUpdates); err != nil {
			return nil, fmt.Errorf("update destination quantities: %w", err)
		}
	}

	return results, nil
}

func (s *MerchantService) findByName(ctx context.Context, actorID, name string) (*domain.Item, error) {
	items, err := s.store.ListItems(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list destination items: %w", err)
	}
	for i := range items {
		if items[i].Name == name {
			return &items[i], nil
		}
	}
	return nil, nil
}
