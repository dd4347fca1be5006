package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreAzTables = "aztables"

	ChangeFeedNone   = "none"
	ChangeFeedMemory = "memory"
	ChangeFeedRedis  = "redis"
)

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	DynamoDB   DynamoDBConfig
	Database   DatabaseConfig
	AzTables   AzTablesConfig
	Redis      RedisConfig
	ChangeFeed ChangeFeedConfig
}

type ServerConfig struct {
	Port                 string
	Mode                 string
	Debug                bool
	LogLevel             string
	CORSOrigins          []string
	CORSAllowCredentials bool
}

type StoreConfig struct {
	Backend        string
	RequestTimeout time.Duration
}

type DynamoDBConfig struct {
	Region          string
	Endpoint        string
	TableName       string
	AccessKeyID     string
	SecretAccessKey string
	MaxAttempts     int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AzTablesConfig struct {
	ConnectionString string
	TableName        string
	MaxRetries       int
}

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	CacheEnabled bool
	CacheTTL     time.Duration
}

type ChangeFeedConfig struct {
	Backend      string
	AuditEnabled bool
}

var AppConfig *Config

// LoadConfig 讀取環境變數（若存在 .env 會先載入）並檢查必要設定
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	server, err := GetServerConfig()
	if err != nil {
		return nil, err
	}
	store, err := GetStoreConfig()
	if err != nil {
		return nil, err
	}
	dynamo, err := GetDynamoDBConfig()
	if err != nil {
		return nil, err
	}
	azTables, err := GetAzTablesConfig()
	if err != nil {
		return nil, err
	}
	redisConfig, err := GetRedisConfig()
	if err != nil {
		return nil, err
	}
	changeFeed, err := GetChangeFeedConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:     server,
		Store:      store,
		DynamoDB:   dynamo,
		Database:   GetDatabaseConfig(),
		AzTables:   azTables,
		Redis:      redisConfig,
		ChangeFeed: changeFeed,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return AppConfig, nil
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
		CacheTTL: time.Minute,
	}

	return &Config{
		Server: ServerConfig{Port: "8080", Mode: "test", LogLevel: "debug", CORSOrigins: []string{"*"}},
		Store:  StoreConfig{Backend: StorePostgres, RequestTimeout: 5 * time.Second},
		DynamoDB: DynamoDBConfig{
			Region:      "us-east-1",
			Endpoint:    "http://localhost:8000", // DynamoDB Local
			TableName:   "events-table-test",
			MaxAttempts: 1,
		},
		Database:   *testConfig,
		AzTables:   AzTablesConfig{TableName: "eventstest", MaxRetries: 1},
		Redis:      testRedisConfig,
		ChangeFeed: ChangeFeedConfig{Backend: ChangeFeedMemory},
	}
}

// Validate 檢查各 backend 必要的設定值
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreDynamoDB:
		if c.DynamoDB.TableName == "" {
			return fmt.Errorf("DYNAMODB_TABLE_NAME is required")
		}
	case StorePostgres:
	case StoreAzTables:
		if c.AzTables.ConnectionString == "" {
			return fmt.Errorf("AZURE_TABLES_CONNECTION_STRING is required")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.ChangeFeed.Backend {
	case ChangeFeedNone, ChangeFeedMemory, ChangeFeedRedis:
	default:
		return fmt.Errorf("unsupported CHANGE_FEED %q", c.ChangeFeed.Backend)
	}
	return nil
}

// RedisRequired reports whether any enabled component needs a Redis connection.
func (c *Config) RedisRequired() bool {
	return c.Redis.CacheEnabled || c.ChangeFeed.Backend == ChangeFeedRedis
}

func GetServerConfig() (ServerConfig, error) {
	debug, err := getEnvBool("DEBUG", false)
	if err != nil {
		return ServerConfig{}, err
	}
	allowCredentials, err := getEnvBool("CORS_ALLOW_CREDENTIALS", true)
	if err != nil {
		return ServerConfig{}, err
	}
	return ServerConfig{
		Port:                 getEnv("PORT", "8080"),
		Mode:                 getEnv("GIN_MODE", "release"),
		Debug:                debug,
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSOrigins:          splitList(getEnv("CORS_ORIGINS", "*")),
		CORSAllowCredentials: allowCredentials,
	}, nil
}

func GetStoreConfig() (StoreConfig, error) {
	timeout, err := getEnvDuration("STORE_REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return StoreConfig{}, err
	}
	return StoreConfig{
		Backend:        strings.ToLower(getEnv("STORE_BACKEND", StoreDynamoDB)),
		RequestTimeout: timeout,
	}, nil
}

func GetDynamoDBConfig() (DynamoDBConfig, error) {
	attempts, err := strconv.Atoi(getEnv("DYNAMODB_MAX_ATTEMPTS", "3"))
	if err != nil {
		return DynamoDBConfig{}, fmt.Errorf("DYNAMODB_MAX_ATTEMPTS: %w", err)
	}
	return DynamoDBConfig{
		Region:          getEnv("AWS_REGION", "us-east-1"),
		Endpoint:        os.Getenv("AWS_ENDPOINT_URL"),
		TableName:       getEnv("DYNAMODB_TABLE_NAME", "events-table"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		MaxAttempts:     attempts,
	}, nil
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetAzTablesConfig() (AzTablesConfig, error) {
	retries, err := strconv.Atoi(getEnv("AZURE_TABLES_MAX_RETRIES", "3"))
	if err != nil {
		return AzTablesConfig{}, fmt.Errorf("AZURE_TABLES_MAX_RETRIES: %w", err)
	}
	return AzTablesConfig{
		ConnectionString: os.Getenv("AZURE_TABLES_CONNECTION_STRING"),
		TableName:        getEnv("AZURE_TABLE_NAME", "events"),
		MaxRetries:       retries,
	}, nil
}

func GetRedisConfig() (RedisConfig, error) {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	enabled, err := getEnvBool("CACHE_ENABLED", false)
	if err != nil {
		return RedisConfig{}, err
	}
	ttl, err := getEnvDuration("REDIS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Host:         getEnv("REDIS_HOST", "localhost"),
		Port:         getEnv("REDIS_PORT", "6379"),
		Password:     getEnv("REDIS_PASSWORD", ""),
		DB:           db,
		CacheEnabled: enabled,
		CacheTTL:     ttl,
	}, nil
}

func GetChangeFeedConfig() (ChangeFeedConfig, error) {
	audit, err := getEnvBool("AUDIT_WORKER_ENABLED", true)
	if err != nil {
		return ChangeFeedConfig{}, err
	}
	return ChangeFeedConfig{
		Backend:      strings.ToLower(getEnv("CHANGE_FEED", ChangeFeedNone)),
		AuditEnabled: audit,
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
