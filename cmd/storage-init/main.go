package main

import (
	"context"
	"fmt"
	"time"

	"events-api/config"
	"events-api/internal/database"
	"events-api/internal/repository"
	"events-api/pkg/logger"

	"go.uber.org/zap"
)

const initTimeout = 2 * time.Minute

// storage-init 建立目前 STORE_BACKEND 所需的資料表，已存在時不做任何事
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L.Fatal("load config", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	if err := ensureStorage(ctx, cfg); err != nil {
		logger.L.Fatal("storage init failed", zap.String("store", cfg.Store.Backend), zap.Error(err))
	}
	logger.L.Info("storage ready", zap.String("store", cfg.Store.Backend))
}

func ensureStorage(ctx context.Context, cfg *config.Config) error {
	switch cfg.Store.Backend {
	case config.StoreDynamoDB:
		client, err := database.InitDynamoDB(ctx, &cfg.DynamoDB, cfg.Store.RequestTimeout)
		if err != nil {
			return err
		}
		return database.EnsureDynamoTable(ctx, client, cfg.DynamoDB.TableName, repository.DynamoKeyAttribute)

	case config.StorePostgres:
		pool, err := database.InitDatabase(&cfg.Database, cfg.Store.RequestTimeout)
		if err != nil {
			return err
		}
		defer pool.Close()
		return database.EnsurePostgresSchema(ctx, pool)

	case config.StoreAzTables:
		client, err := database.InitAzTables(&cfg.AzTables, cfg.Store.RequestTimeout)
		if err != nil {
			return err
		}
		return database.EnsureAzTable(ctx, client)
	}
	return fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
}
