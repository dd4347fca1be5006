package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"events-api/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL,
		event_date  TEXT NOT NULL,
		location    TEXT NOT NULL,
		capacity    INTEGER NOT NULL,
		organizer   TEXT NOT NULL,
		status      TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)
`

// InitDatabase 建立連線池並 ping；timeout 同時作為連線逾時與 statement_timeout
func InitDatabase(config *config.DatabaseConfig, timeout time.Duration) (*pgxpool.Pool, error) {
	poolConfig, err := postgresPoolConfig(config, timeout)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}

	err = pool.Ping(context.Background())
	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func postgresPoolConfig(config *config.DatabaseConfig, timeout time.Duration) (*pgxpool.Config, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s timezone=%s",
		config.Host,
		config.Port,
		config.User,
		config.Password,
		config.DBName,
		config.SSLMode,
		"UTC",
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	// 設置連接池參數
	poolConfig.MaxConns = 25                      // 最大連接數
	poolConfig.MinConns = 5                       // 最小連接數
	poolConfig.MaxConnLifetime = time.Hour        // 連接最大生命週期
	poolConfig.MaxConnIdleTime = time.Minute * 30 // 最大閒置時間

	if timeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = timeout
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(timeout.Milliseconds(), 10)
	}
	return poolConfig, nil
}

// EnsurePostgresSchema 建立 events 資料表（已存在則略過）
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}
