package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	"github.com/carsoffer/go-cars-offers/cache"
	"github.com/carsoffer/go-cars-offers/internal/config"
	"github.com/carsoffer/go-cars-offers/internal/httpapi"
	"github.com/carsoffer/go-cars-offers/internal/model"
	"github.com/carsoffer/go-cars-offers/pkg/di"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on system env vars")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := openDB(cfg)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := model.CreateSchema(context.Background(), db); err != nil {
		logger.Fatal("create schema", zap.Error(err))
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.Capacity = cfg.CacheCapacity
	cacheCfg.NumShards = cfg.CacheShards
	cacheCfg.TTL = cfg.CacheTTL
	cacheCfg.EvictionPercentage = cfg.CacheEvictPct
	cacheCfg.EvictionInterval = cfg.CacheEvictEvery

	container, err := di.NewContainer(db, cacheCfg, logger)
	if err != nil {
		logger.Fatal("assemble container", zap.Error(err))
	}

	router := httpapi.NewRouter(container.Vehicles(), container.Offers(), logger.Named("http"))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("stopped")
}

func openDB(cfg config.AppConfig) (*bun.DB, error) {
	if cfg.UseSQLite {
		sqldb, err := sql.Open("sqlite3", ":memory:")
		if err != nil {
			return nil, err
		}
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}

	sqldb, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}
