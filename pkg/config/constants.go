package config

const (
	EnvPrefix = "TRADELINK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	NotificationDeliveryLog    = "log"
	NotificationDeliveryPubSub = "pubsub"

	defaultSQLiteDSN = "file:tradelink.db?cache=shared&_fk=1"
)

const (
	EnvAppEnv                  = "TRADELINK_APP_ENV"
	EnvPort                    = "TRADELINK_APP_PORT"
	EnvLogLevel                = "TRADELINK_LOG_LEVEL"
	EnvDBDSN                   = "TRADELINK_DB_DSN"
	EnvDBHost                  = "TRADELINK_DB_HOST"
	EnvDBUser                  = "TRADELINK_DB_USER"
	EnvDBName                  = "TRADELINK_DB_NAME"
	EnvDBPassword              = "TRADELINK_DB_PASSWORD"
	EnvRedisURL                = "TRADELINK_REDIS_URL"
	EnvJWTSecret               = "TRADELINK_JWT_SECRET"
	EnvJWTIssuer               = "TRADELINK_JWT_ISSUER"
	EnvJWTExpMins              = "TRADELINK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes  = "TRADELINK_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite               = "TRADELINK_USE_SQLITE"
	EnvGCPProjectID            = "TRADELINK_GCP_PROJECT_ID"
	EnvPubSubNotificationTopic = "TRADELINK_PUBSUB_NOTIFICATION_TOPIC"
	EnvNotificationDelivery    = "TRADELINK_NOTIFICATION_DELIVERY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
