package tests

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avelien/shopkeeper/internal/adapter/notify"
	"github.com/avelien/shopkeeper/internal/adapter/settings"
	"github.com/avelien/shopkeeper/internal/adapter/storage"
	"github.com/avelien/shopkeeper/internal/core/currency"
	"github.com/avelien/shopkeeper/internal/core/domain"
	"github.com/avelien/shopkeeper/internal/core/service"
)

type testEnv struct {
	redis   *redis.Client
	mysql   *sql.DB
	store   *storage.MySQLStore
	idem    *storage.RedisIdempotency
	cleanup func()
}

func setupTestEnv(t *testing.T) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/shopkeeper?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	return &testEnv{
		redis: rdb,
		mysql: db,
		store: storage.NewMySQLStore(db),
		idem:  storage.NewRedisIdempotency(rdb),
		cleanup: func() {
			rdb.Close()
			db.Close()
		},
	}
}

// seedShop creates a merchant with one listed item, a funded customer, and a
// scene token for the merchant. All rows are removed when the test ends.
func seedShop(t *testing.T, env *testEnv, stock float64, price int64, coins int64) (sellerID, buyerID, tokenID, itemID string) {
	t.Helper()
	ctx := context.Background()
	run := uuid.NewString()

	sellerID = "merchant-" + run
	buyerID = "customer-" + run
	tokenID = "token-" + run
	itemID = uuid.NewString()

	exec := func(query string, args ...interface{}) {
		t.Helper()
		if _, err := env.mysql.ExecContext(ctx, query, args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	exec(`INSERT INTO actors (id, name) VALUES (?, ?), (?, ?)`, sellerID, "Merchant", buyerID, "Customer")
	exec(`INSERT INTO scene_tokens (token_id, actor_id) VALUES (?, ?)`, tokenID, sellerID)

	if err := env.store.CreateItems(ctx, sellerID, []*domain.Item{{
		ID:       itemID,
		Name:     "Torch",
		Price:    domain.Price{Value: decimal.NewFromInt(price)},
		Quantity: stock,
	}}); err != nil {
		t.Fatalf("seed items: %v", err)
	}
	if err := env.store.SaveFunds(ctx, buyerID, domain.Funds{"coins": decimal.NewFromInt(coins)}); err != nil {
		t.Fatalf("seed funds: %v", err)
	}

	t.Cleanup(func() {
		for _, actorID := range []string{sellerID, buyerID} {
			env.mysql.ExecContext(ctx, `DELETE FROM items WHERE actor_id = ?`, actorID)
			env.mysql.ExecContext(ctx, `DELETE FROM funds WHERE actor_id = ?`, actorID)
			env.mysql.ExecContext(ctx, `DELETE FROM merchant_flags WHERE actor_id = ?`, actorID)
			env.mysql.ExecContext(ctx, `DELETE FROM scene_tokens WHERE actor_id = ?`, actorID)
			env.mysql.ExecContext(ctx, `DELETE FROM actors WHERE id = ?`, actorID)
		}
	})
	return sellerID, buyerID, tokenID, itemID
}

func newService(env *testEnv) *service.MerchantService {
	return service.NewMerchantService(
		env.store,
		settings.Static{},
		notify.NewLogNotifier(notify.DefaultTable(), zap.NewNop()),
		env.idem,
		currency.NewResolver("generic"),
		zap.NewNop(),
	)
}

func TestIntegration_FullBuyFlow(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	sellerID, buyerID, tokenID, itemID := seedShop(t, env, 10, 2, 50)

	svc := newService(env)

	receipt, err := svc.HandleBuyMessage(ctx, domain.BuyMessage{
		Action:        domain.BuyAction,
		BuyerID:       buyerID,
		SellerTokenID: tokenID,
		ItemID:        itemID,
		Quantity:      4,
	})
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if receipt.Status != domain.StatusCompleted || receipt.Quantity != 4 {
		t.Errorf("unexpected receipt: %+v", receipt)
	}

	buyer, err := env.store.GetActor(ctx, buyerID)
	if err != nil {
		t.Fatalf("get buyer: %v", err)
	}
	if !buyer.Funds.Get("coins").Equal(decimal.NewFromInt(42)) {
		t.Errorf("expected buyer left with 42 coins, got %s", buyer.Funds.Get("coins"))
	}

	seller, err := env.store.GetActor(ctx, sellerID)
	if err != nil {
		t.Fatalf("get seller: %v", err)
	}
	if !seller.Funds.Get("coins").Equal(decimal.NewFromInt(8)) {
		t.Errorf("expected seller credited 8 coins, got %s", seller.Funds.Get("coins"))
	}

	item, err := env.store.GetItem(ctx, sellerID, itemID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item == nil || item.Quantity != 6 {
		t.Errorf("expected stock 6 remaining, got %+v", item)
	}
}

func TestIntegration_DepletedListingRemoved(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	sellerID, buyerID, tokenID, itemID := seedShop(t, env, 3, 1, 50)

	svc := newService(env)

	receipt, err := svc.HandleBuyMessage(ctx, domain.BuyMessage{
		Action:        domain.BuyAction,
		BuyerID:       buyerID,
		SellerTokenID: tokenID,
		ItemID:        itemID,
		Quantity:      3,
	})
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if receipt.Quantity != 3 {
		t.Errorf("expected full stock sold, got %v", receipt.Quantity)
	}

	item, err := env.store.GetItem(ctx, sellerID, itemID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item != nil {
		t.Errorf("expected depleted listing removed, still present: %+v", item)
	}
}

func TestIntegration_IdempotencyPreventsDoubleCharge(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	_, buyerID, tokenID, itemID := seedShop(t, env, 10, 2, 50)

	svc := newService(env)
	msg := domain.BuyMessage{
		RequestID:     uuid.NewString(),
		Action:        domain.BuyAction,
		BuyerID:       buyerID,
		SellerTokenID: tokenID,
		ItemID:        itemID,
		Quantity:      1,
	}

	if _, err := svc.HandleBuyMessage(ctx, msg); err != nil {
		t.Fatalf("first buy failed: %v", err)
	}
	if _, err := svc.HandleBuyMessage(ctx, msg); err != service.ErrDuplicateRequest {
		t.Errorf("expected ErrDuplicateRequest, got: %v", err)
	}

	// A fresh request id is a new purchase, not a redelivery.
	msg.RequestID = uuid.NewString()
	if _, err := svc.HandleBuyMessage(ctx, msg); err != nil {
		t.Errorf("repeat purchase under a new request id failed: %v", err)
	}

	buyer, err := env.store.GetActor(ctx, buyerID)
	if err != nil {
		t.Fatalf("get buyer: %v", err)
	}
	if !buyer.Funds.Get("coins").Equal(decimal.NewFromInt(46)) {
		t.Errorf("expected two charges leaving 46 coins, got %s", buyer.Funds.Get("coins"))
	}
}

func TestIntegration_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	sellerID, buyerID, tokenID, itemID := seedShop(t, env, 10, 20, 5)

	svc := newService(env)

	_, err := svc.HandleBuyMessage(ctx, domain.BuyMessage{
		Action:        domain.BuyAction,
		BuyerID:       buyerID,
		SellerTokenID: tokenID,
		ItemID:        itemID,
		Quantity:      2,
	})
	if err != service.ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got: %v", err)
	}

	buyer, _ := env.store.GetActor(ctx, buyerID)
	if !buyer.Funds.Get("coins").Equal(decimal.NewFromInt(5)) {
		t.Errorf("buyer funds mutated on rejected buy: %s", buyer.Funds.Get("coins"))
	}
	item, _ := env.store.GetItem(ctx, sellerID, itemID)
	if item == nil || item.Quantity != 10 {
		t.Errorf("stock mutated on rejected buy: %+v", item)
	}
}
