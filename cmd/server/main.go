package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"events-api/config"
	"events-api/internal/cache"
	"events-api/internal/database"
	"events-api/internal/handler"
	"events-api/internal/middleware"
	"events-api/internal/queue"
	"events-api/internal/repository"
	"events-api/internal/service"
	"events-api/internal/worker"
	"events-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	memoryQueueBufferSize = 1024
	shutdownTimeout       = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		logger.L.Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
		logger.L.Warn("invalid LOG_LEVEL, keeping info", zap.String("level", cfg.Server.LogLevel))
	}
	defer func() { _ = logger.L.Sync() }()
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := newRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var rdb *redis.Client
	if cfg.RedisRequired() {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer rdb.Close()
	}
	if cfg.Redis.CacheEnabled {
		repo = repository.NewCachedEventRepository(repo, cache.NewRedisEventCache(rdb, cfg.Redis.CacheTTL))
	}

	changes, err := newChangeQueue(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	if changes != nil && cfg.ChangeFeed.AuditEnabled {
		if err := worker.NewAuditWorker(changes, nil).Start(ctx); err != nil {
			return fmt.Errorf("start audit worker: %w", err)
		}
	}

	eventService := service.NewEventService(repo, changes)
	router := newRouter(cfg, eventService)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Store.Backend),
			zap.String("change_feed", cfg.ChangeFeed.Backend),
			zap.Bool("cache", cfg.Redis.CacheEnabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(cfg *config.Config, eventService service.EventService) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Recovery(cfg.Server.Debug),
		middleware.CORS(cfg.Server.CORSOrigins, cfg.Server.CORSAllowCredentials),
	)

	handler.NewHealthHandler().RegisterRoutes(router)
	handler.NewEventHandler(eventService, cfg.Server.Debug).RegisterRoutes(router)
	return router
}

// newRepository 依 STORE_BACKEND 建立 repository，回傳的 close 負責釋放連線
func newRepository(ctx context.Context, cfg *config.Config) (repository.EventRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreDynamoDB:
		client, err := database.InitDynamoDB(ctx, &cfg.DynamoDB, cfg.Store.RequestTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize dynamodb: %w", err)
		}
		return repository.NewDynamoEventRepository(client, cfg.DynamoDB.TableName), func() {}, nil

	case config.StorePostgres:
		pool, err := database.InitDatabase(&cfg.Database, cfg.Store.RequestTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repository.NewPostgresEventRepository(pool), pool.Close, nil

	case config.StoreAzTables:
		client, err := database.InitAzTables(&cfg.AzTables, cfg.Store.RequestTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize azure tables: %w", err)
		}
		return repository.NewAzTablesEventRepository(client), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
}

func newChangeQueue(ctx context.Context, cfg *config.Config, rdb *redis.Client) (queue.ChangeQueue, error) {
	switch cfg.ChangeFeed.Backend {
	case config.ChangeFeedMemory:
		return queue.NewChangeQueue(memoryQueueBufferSize), nil
	case config.ChangeFeedRedis:
		consumerID := fmt.Sprintf("%s-%d", hostname(), os.Getpid())
		q, err := queue.NewRedisChangeStream(ctx, rdb, consumerID, queue.StreamOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize change stream: %w", err)
		}
		return q, nil
	}
	return nil, nil
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "local"
	}
	return name
}
