package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv       = "STOREFRONT_APP_ENV"
	EnvPort         = "STOREFRONT_APP_PORT"
	EnvLogLevel     = "STOREFRONT_LOG_LEVEL"
	EnvLogWarnStack = "STOREFRONT_LOG_WARN_STACK"

	EnvCatalogSource       = "STOREFRONT_CATALOG_SOURCE"
	EnvCatalogFetchTimeout = "STOREFRONT_CATALOG_FETCH_TIMEOUT"

	EnvStateBackend = "STOREFRONT_STATE_BACKEND"
	EnvStateDir     = "STOREFRONT_STATE_DIR"
	EnvStateScope   = "STOREFRONT_STATE_SCOPE"

	EnvDBDriver = "STOREFRONT_DB_DRIVER"
	EnvDBDSN    = "STOREFRONT_DB_DSN"

	EnvRedisURL  = "STOREFRONT_REDIS_URL"
	EnvRedisAddr = "STOREFRONT_REDIS_ADDR"

	EnvChatAPIKey      = "GROQ_API_KEY"
	EnvChatBaseURL     = "STOREFRONT_CHAT_BASE_URL"
	EnvChatModel       = "STOREFRONT_CHAT_MODEL"
	EnvChatProxyURL    = "STOREFRONT_CHAT_PROXY_URL"
	EnvChatHistory     = "STOREFRONT_CHAT_HISTORY_LIMIT"
	EnvChatTimeout     = "STOREFRONT_CHAT_TIMEOUT"
	EnvChatMaxTokens   = "STOREFRONT_CHAT_MAX_TOKENS"
	EnvChatTemperature = "STOREFRONT_CHAT_TEMPERATURE"

	EnvRateLimitChatWindow  = "STOREFRONT_RATE_LIMIT_CHAT_WINDOW"
	EnvRateLimitChatIPLimit = "STOREFRONT_RATE_LIMIT_CHAT_IP_LIMIT"

	EnvCORSOrigins = "STOREFRONT_CORS_ALLOWED_ORIGINS"

	EnvMetricsEnabled = "STOREFRONT_METRICS_ENABLED"
)
