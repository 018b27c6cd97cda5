package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avelien/shopkeeper/internal/core/domain"
)

// MySQLStore is a persistent InventoryStore for deployments that mirror the
// host's actor documents into a relational store. Schema in scripts/schema.sql.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (m *MySQLStore) GetActor(ctx context.Context, actorID string) (*domain.Actor, error) {
	var actor domain.Actor
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name FROM actors WHERE id = ?`, actorID,
	).Scan(&actor.ID, &actor.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query actor: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT denomination, amount FROM funds WHERE actor_id = ?`, actorID)
	if err != nil {
		return nil, fmt.Errorf("query funds: %w", err)
	}
	defer rows.Close()

	actor.Funds = domain.Funds{}
	for rows.Next() {
		var denom, amount string
		if err := rows.Scan(&denom, &amount); err != nil {
			return nil, fmt.Errorf("scan funds: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse funds amount: %w", err)
		}
		actor.Funds[denom] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate funds: %w", err)
	}
	return &actor, nil
}

func (m *MySQLStore) GetItem(ctx context.Context, actorID, itemID string) (*domain.Item, error) {
	item, err := scanItem(m.db.QueryRowContext(ctx, `
		SELECT id, name, price_value, price_denomination, quantity
		FROM items WHERE actor_id = ? AND id = ?`, actorID, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

func (m *MySQLStore) ListItems(ctx context.Context, actorID string) ([]domain.Item, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, price_value, price_denomination, quantity
		FROM items WHERE actor_id = ? ORDER BY position, id`, actorID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func (m *MySQLStore) CreateItems(ctx context.Context, actorID string, items []*domain.Item) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var position int
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) FROM items WHERE actor_id = ?`, actorID,
	).Scan(&position); err != nil {
		return fmt.Errorf("next position: %w", err)
	}

	for _, item := range items {
		position++
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (id, actor_id, name, price_value, price_denomination, quantity, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID, actorID, item.Name, item.Price.Value.String(),
			item.Price.Denomination, item.Quantity, position,
		)
		if err != nil {
			return fmt.Errorf("insert item %s: %w", item.ID, err)
		}
	}
	return tx.Commit()
}

func (m *MySQLStore) UpdateQuantities(ctx context.Context, actorID string, updates []domain.QuantityUpdate) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		result, err := tx.ExecContext(ctx, `
			UPDATE items SET quantity = ? WHERE actor_id = ? AND id = ?`,
			u.Quantity, actorID, u.ItemID,
		)
		if err != nil {
			return fmt.Errorf("update item %s: %w", u.ItemID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			// Writing back the current quantity is a legal no-op, so only a
			// genuinely missing row is reported.
			if exists, err := m.itemExists(ctx, tx, actorID, u.ItemID); err != nil {
				return err
			} else if !exists {
				return fmt.Errorf("update quantity: unknown item %s", u.ItemID)
			}
		}
	}
	return tx.Commit()
}

func (m *MySQLStore) UpdatePrice(ctx context.Context, actorID, itemID string, price domain.Price) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE items SET price_value = ?, price_denomination = ? WHERE actor_id = ? AND id = ?`,
		price.Value.String(), price.Denomination, actorID, itemID,
	)
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if exists, err := m.itemExists(ctx, nil, actorID, itemID); err != nil {
			return err
		} else if !exists {
			return fmt.Errorf("update price: unknown item %s", itemID)
		}
	}
	return nil
}

func (m *MySQLStore) DeleteItems(ctx context.Context, actorID string, itemIDs []string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, id := range itemIDs {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM items WHERE actor_id = ? AND id = ?`, actorID, id,
		); err != nil {
			return fmt.Errorf("delete item %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (m *MySQLStore) SaveFunds(ctx context.Context, actorID string, funds domain.Funds) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM funds WHERE actor_id = ?`, actorID,
	); err != nil {
		return fmt.Errorf("clear funds: %w", err)
	}
	for denom, amount := range funds {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO funds (actor_id, denomination, amount) VALUES (?, ?, ?)`,
			actorID, denom, amount.String(),
		); err != nil {
			return fmt.Errorf("insert funds %s: %w", denom, err)
		}
	}
	return tx.Commit()
}

func (m *MySQLStore) GetFlags(ctx context.Context, actorID string) (*domain.MerchantFlags, error) {
	var (
		flags                           domain.MerchantFlags
		priceMod, buyMod, stackMod      sql.NullFloat64
		keepDepleted, infinity, service bool
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT price_modifier, buy_modifier, stack_modifier, keep_depleted, infinity, service
		FROM merchant_flags WHERE actor_id = ?`, actorID,
	).Scan(&priceMod, &buyMod, &stackMod, &keepDepleted, &infinity, &service)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.MerchantFlags{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query flags: %w", err)
	}

	if priceMod.Valid {
		flags.PriceModifier = &priceMod.Float64
	}
	if buyMod.Valid {
		flags.BuyModifier = &buyMod.Float64
	}
	if stackMod.Valid {
		flags.StackModifier = &stackMod.Float64
	}
	flags.KeepDepleted = keepDepleted
	flags.Infinity = infinity
	flags.Service = service
	return &flags, nil
}

func (m *MySQLStore) SaveFlags(ctx context.Context, actorID string, flags *domain.MerchantFlags) error {
	var priceMod, buyMod, stackMod sql.NullFloat64
	if flags.PriceModifier != nil {
		priceMod = sql.NullFloat64{Float64: *flags.PriceModifier, Valid: true}
	}
	if flags.BuyModifier != nil {
		buyMod = sql.NullFloat64{Float64: *flags.BuyModifier, Valid: true}
	}
	if flags.StackModifier != nil {
		stackMod = sql.NullFloat64{Float64: *flags.StackModifier, Valid: true}
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO merchant_flags (actor_id, price_modifier, buy_modifier, stack_modifier, keep_depleted, infinity, service)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			price_modifier = VALUES(price_modifier),
			buy_modifier = VALUES(buy_modifier),
			stack_modifier = VALUES(stack_modifier),
			keep_depleted = VALUES(keep_depleted),
			infinity = VALUES(infinity),
			service = VALUES(service)`,
		actorID, priceMod, buyMod, stackMod, flags.KeepDepleted, flags.Infinity, flags.Service,
	)
	if err != nil {
		return fmt.Errorf("save flags: %w", err)
	}
	return nil
}

func (m *MySQLStore) ResolveToken(ctx context.Context, tokenID string) (string, error) {
	var actorID string
	err := m.db.QueryRowContext(ctx, `
		SELECT actor_id FROM scene_tokens WHERE token_id = ?`, tokenID,
	).Scan(&actorID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}
	return actorID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		item       domain.Item
		priceValue string
	)
	if err := row.Scan(&item.ID, &item.Name, &priceValue, &item.Price.Denomination, &item.Quantity); err != nil {
		return nil, err
	}
	value, err := decimal.NewFromString(priceValue)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	item.Price.Value = value
	return &item, nil
}

func (m *MySQLStore) itemExists(ctx context.Context, tx *sql.Tx, actorID, itemID string) (bool, error) {
	query := `SELECT 1 FROM items WHERE actor_id = ? AND id = ?`
	var one int
	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, actorID, itemID).Scan(&one)
	} else {
		err = m.db.QueryRowContext(ctx, query, actorID, itemID).Scan(&one)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check item: %w", err)
	}
	return true, nil
}
