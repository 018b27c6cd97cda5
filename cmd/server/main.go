package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avelien/shopkeeper/internal/adapter/handler"
	"github.com/avelien/shopkeeper/internal/adapter/notify"
	"github.com/avelien/shopkeeper/internal/adapter/settings"
	"github.com/avelien/shopkeeper/internal/adapter/storage"
	"github.com/avelien/shopkeeper/internal/config"
	"github.com/avelien/shopkeeper/internal/core/currency"
	"github.com/avelien/shopkeeper/internal/core/domain"
	"github.com/avelien/shopkeeper/internal/core/service"
	"github.com/avelien/shopkeeper/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	var (
		store port.InventoryStore
		db    *sql.DB
	)
	switch cfg.Store {
	case "mysql":
		db, err = sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Fatal("failed to connect mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}
		logger.Info("connected to mysql")
		store = storage.NewMySQLStore(db)
	default:
		mem := storage.NewMemoryStore()
		seedDemo(mem)
		logger.Info("using in-memory store with demo data")
		store = mem
	}

	var (
		rdb  *redis.Client
		idem port.IdempotencyStore
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		logger.Info("connected to redis")
		idem = storage.NewRedisIdempotency(rdb)
	}

	resolver := currency.NewResolver(cfg.Ruleset)
	notifier := notify.NewLogNotifier(notify.DefaultTable(), logger)
	merchant := service.NewMerchantService(
		store,
		settings.Static{NoGM: cfg.AllowNoGM},
		notifier,
		idem,
		resolver,
		logger,
	)

	httpHandler := handler.NewHTTPHandler(merchant)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.HandleFunc("/api/buy", httpHandler.Buy)

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")

	if rdb != nil {
		_ = rdb.Close()
	}
	if db != nil {
		_ = db.Close()
	}
	logger.Info("connections closed")
}

// seedDemo loads a small shop so the memory backend answers requests out of
// the box.
func seedDemo(store *storage.MemoryStore) {
	merchantID := "merchant-1"
	buyerID := "customer-1"

	store.PutActor(&domain.Actor{ID: merchantID, Name: "Provisioner", Funds: domain.Funds{
		currency.CoinsKey: decimal.NewFromInt(100),
	}})
	store.PutActor(&domain.Actor{ID: buyerID, Name: "Traveler", Funds: domain.Funds{
		currency.CoinsKey: decimal.NewFromInt(50),
	}})
	store.PutToken("token-merchant-1", merchantID)

	store.PutItems(merchantID,
		&domain.Item{ID: "torch", Name: "Torch", Price: domain.Price{Value: decimal.NewFromInt(1)}, Quantity: 10},
		&domain.Item{ID: "rations", Name: "Rations", Price: domain.Price{Value: decimal.NewFromInt(2)}, Quantity: domain.Unlimited},
		&domain.Item{ID: "rope", Name: "Rope (50 ft)", Price: domain.Price{Value: decimal.NewFromInt(5)}, Quantity: 3},
	)
}
