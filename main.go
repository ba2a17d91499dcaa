package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"strategy-core/internal/api"
	"strategy-core/internal/feed"
	"strategy-core/internal/notify"
	"strategy-core/internal/strategy"
	"strategy-core/pkg/config"
	"strategy-core/pkg/db"
	"strategy-core/pkg/market/hyperliquid"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "v1.0-dev"
	}
	log.Printf("🚀 strategy-core %s starting (port %s, db %s)", version, cfg.Port, cfg.DBPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer database.Close()
	if err := db.ApplyMigrations(database); err != nil {
		log.Fatalf("database migrations failed: %v", err)
	}

	// First-run seeds: YAML file when configured, built-in examples otherwise.
	var seeds []strategy.Strategy
	if cfg.SeedPath != "" {
		seeds, err = strategy.LoadSeeds(cfg.SeedPath)
		if err != nil {
			log.Fatalf("seed file %s: %v", cfg.SeedPath, err)
		}
		log.Printf("loaded %d seed strategies from %s", len(seeds), cfg.SeedPath)
	}
	repo := strategy.NewSQLRepository(database, seeds)

	notifications := notify.NewChannel(cfg.NotifyTTL)
	notifications.Start(ctx)

	// Editor surface: serves the HTTP API.
	editorStore := strategy.NewStore(strategy.StoreConfig{
		Name:          "editor",
		Repo:          repo,
		MaxStrategies: cfg.MaxStrategies,
		SyncInterval:  cfg.SyncInterval,
		Notifier:      notifications,
	})
	if err := editorStore.Start(ctx); err != nil {
		log.Fatalf("editor store load failed: %v", err)
	}

	// Trade surface: an independent consumer of the same repository. It holds
	// its own projection and converges through polling, never shared memory.
	tradeStore := strategy.NewStore(strategy.StoreConfig{
		Name:          "trade",
		Repo:          repo,
		MaxStrategies: cfg.MaxStrategies,
		SyncInterval:  cfg.SyncInterval,
	})
	if err := tradeStore.Start(ctx); err != nil {
		log.Fatalf("trade store load failed: %v", err)
	}
	go logActiveStrategies(ctx, tradeStore, cfg.SyncInterval*10)

	priceClient := hyperliquid.NewClient(cfg.PriceAPIURL, cfg.PriceRate)

	// Console price tickers for the configured coins, one independent
	// subscription each.
	for _, coin := range cfg.PriceCoins {
		sub := feed.NewSubscription(priceClient, coin, cfg.PriceInterval)
		sub.Start(ctx)
		go logPriceTicks(ctx, sub, cfg.PriceInterval)
	}

	server := api.NewServer(editorStore, priceClient, notifications, cfg.PriceInterval, api.SystemMeta{
		Version:      version,
		Coins:        cfg.PriceCoins,
		SyncInterval: cfg.SyncInterval,
	})
	go func() {
		if err := server.Start(":" + cfg.Port); err != nil {
			log.Fatalf("api server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("shutting down")
}

// logActiveStrategies periodically reports the trade surface's view of the
// collection.
func logActiveStrategies(ctx context.Context, store *strategy.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			active := 0
			list := store.List()
			for _, st := range list {
				if st.Status == strategy.StatusActive {
					active++
				}
			}
			log.Printf("[trade] %d strategies (%d active)", len(list), active)
		case <-ctx.Done():
			return
		}
	}
}

func logPriceTicks(ctx context.Context, sub *feed.Subscription, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			snap := sub.Snapshot()
			if snap.Err != "" {
				log.Printf("[price] %s: %s", snap.Coin, snap.Err)
				continue
			}
			if snap.Price != "" {
				log.Printf("[price] %s %s (%s)", snap.Coin, snap.Price, snap.Direction())
			}
		case <-ctx.Done():
			return
		}
	}
}
