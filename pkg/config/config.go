package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StateBackendMemory = "memory"
	StateBackendFile   = "file"
	StateBackendSQL    = "sql"
	StateBackendRedis  = "redis"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	State     StateConfig
	DB        DBConfig
	Redis     RedisConfig
	Chat      ChatConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Metrics   MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at the product catalog. Source is a file path or an
// http(s) URL.
type CatalogConfig struct {
	Source       string        `envconfig:"STOREFRONT_CATALOG_SOURCE" default:"assets/products.json"`
	FetchTimeout time.Duration `envconfig:"STOREFRONT_CATALOG_FETCH_TIMEOUT" default:"10s"`
}

type StateConfig struct {
	Backend string `envconfig:"STOREFRONT_STATE_BACKEND" default:"file"`
	Dir     string `envconfig:"STOREFRONT_STATE_DIR" default:".storefront"`
	Scope   string `envconfig:"STOREFRONT_STATE_SCOPE" default:"local"`
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN" default:"storefront.db"`

	AutoMigrate bool `envconfig:"STOREFRONT_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional. Redis is only dialed when URL or Address is set.
type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type ChatConfig struct {
	APIKey       string        `envconfig:"GROQ_API_KEY"`
	BaseURL      string        `envconfig:"STOREFRONT_CHAT_BASE_URL" default:"https://api.groq.com/openai/v1"`
	Model        string        `envconfig:"STOREFRONT_CHAT_MODEL" default:"llama-3.3-70b-versatile"`
	MaxTokens    int           `envconfig:"STOREFRONT_CHAT_MAX_TOKENS" default:"500"`
	Temperature  float64       `envconfig:"STOREFRONT_CHAT_TEMPERATURE" default:"0.7"`
	HistoryLimit int           `envconfig:"STOREFRONT_CHAT_HISTORY_LIMIT" default:"10"`
	Timeout      time.Duration `envconfig:"STOREFRONT_CHAT_TIMEOUT" default:"30s"`
	ProxyURL     string        `envconfig:"STOREFRONT_CHAT_PROXY_URL" default:"http://localhost:8080"`

	BreakerMaxRequests  uint32        `envconfig:"STOREFRONT_CHAT_BREAKER_MAX_REQUESTS" default:"1"`
	BreakerInterval     time.Duration `envconfig:"STOREFRONT_CHAT_BREAKER_INTERVAL" default:"60s"`
	BreakerTimeout      time.Duration `envconfig:"STOREFRONT_CHAT_BREAKER_TIMEOUT" default:"30s"`
	BreakerFailureRatio float64       `envconfig:"STOREFRONT_CHAT_BREAKER_FAILURE_RATIO" default:"0.5"`
	BreakerMinRequests  uint32        `envconfig:"STOREFRONT_CHAT_BREAKER_MIN_REQUESTS" default:"5"`
}

type RateLimitConfig struct {
	ChatWindow  time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_CHAT_WINDOW" default:"1m"`
	ChatIPLimit int           `envconfig:"STOREFRONT_RATE_LIMIT_CHAT_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"*"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"STOREFRONT_METRICS_ENABLED" default:"true"`
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.State.Backend)) {
	case StateBackendMemory, StateBackendFile, StateBackendSQL:
	case StateBackendRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("%s=redis requires %s or %s", EnvStateBackend, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("invalid %s %q", EnvStateBackend, c.State.Backend)
	}
	c.State.Backend = strings.ToLower(strings.TrimSpace(c.State.Backend))

	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case DBDriverSQLite, DBDriverPostgres:
		c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	default:
		return fmt.Errorf("invalid %s %q", EnvDBDriver, c.DB.Driver)
	}

	if c.Chat.HistoryLimit < 0 {
		return fmt.Errorf("%s must not be negative", EnvChatHistory)
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("%s must be between 0 and 2", EnvChatTemperature)
	}
	return nil
}
