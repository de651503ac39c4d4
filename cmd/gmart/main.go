package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gmart/internal/cache"
	"gmart/internal/config"
	"gmart/internal/gateway"
	"gmart/internal/http/handlers"
	applog "gmart/internal/log"
	"gmart/internal/repos"
	"gmart/internal/services"
)

func main() {
	cfg := config.Load()

	zl, err := applog.Init(cfg.Env, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	for _, n := range cfg.Notes {
		zl.Info("config", zap.String("note", n))
	}
	zl.Info("config",
		zap.String("env", cfg.Env),
		zap.String("backend", cfg.Backend),
		zap.Bool("redis", cfg.RedisURL != ""),
	)

	stores, closeStores := openBackend(cfg, zl)
	defer closeStores()

	var c cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			zl.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()
		c = cache.NewRedis(rdb, "gmart:")
		zl.Info("cache", zap.String("kind", "redis"))
	}

	deps := handlers.NewDeps(stores, c, cfg)
	app := handlers.NewApp(cfg, deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zl.Info("shutting down")
		_ = app.Shutdown()
	}()

	zl.Info("listening", zap.String("port", cfg.Port), zap.String("backend", cfg.Backend))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zl.Fatal("listen", zap.Error(err))
	}
}

func openBackend(cfg config.Config, zl *zap.Logger) (services.Stores, func()) {
	switch cfg.Backend {
	case config.BackendREST:
		if cfg.GatewayURL == "" || cfg.GatewayKey == "" {
			zl.Fatal("BACKEND=rest needs GATEWAY_URL and GATEWAY_KEY")
		}
		client := gateway.NewClient(cfg.GatewayURL, cfg.GatewayKey, cfg.GatewayTimeout)
		return gateway.NewStores(client, cfg.GatewayJWTSecret), func() {}
	default:
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			zl.Fatal("open db", zap.Error(err))
		}
		return repos.NewStores(db), func() { _ = db.Close() }
	}
}
