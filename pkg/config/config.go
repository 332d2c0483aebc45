package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Idempotency   IdempotencyConfig
	FeatureFlags  FeatureFlagsConfig
	PubSub        PubSubConfig
	Notifications NotificationsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Notifications.validate(cfg.PubSub); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRADELINK_APP_ENV" required:"true"`
	Port         string `envconfig:"TRADELINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRADELINK_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"TRADELINK_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"TRADELINK_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"TRADELINK_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// AllowedOrigins splits the comma separated CORS origin list.
func (a AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type DBConfig struct {
	DSN    string `envconfig:"TRADELINK_DB_DSN"`
	Driver string `envconfig:"TRADELINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRADELINK_DB_HOST"`
	LegacyPort     int    `envconfig:"TRADELINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRADELINK_DB_USER"`
	LegacyPassword string `envconfig:"TRADELINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRADELINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRADELINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRADELINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADELINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADELINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADELINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"TRADELINK_DB_SLOW_QUERY_THRESHOLD" default:"250ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADELINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TRADELINK_REDIS_ADDR"`
	Password     string        `envconfig:"TRADELINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRADELINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRADELINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADELINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADELINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADELINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADELINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TRADELINK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TRADELINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TRADELINK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"TRADELINK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TRADELINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TRADELINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TRADELINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TRADELINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TRADELINK_ARGON_KEY_LEN" default:"32"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"TRADELINK_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRADELINK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRADELINK_AUTO_MIGRATE" default:"false"`
}

type PubSubConfig struct {
	ProjectID         string `envconfig:"TRADELINK_GCP_PROJECT_ID"`
	NotificationTopic string `envconfig:"TRADELINK_PUBSUB_NOTIFICATION_TOPIC"`
}

// Enabled reports whether a Pub/Sub client should be created.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.ProjectID) != "" && strings.TrimSpace(p.NotificationTopic) != ""
}

type NotificationsConfig struct {
	Delivery        string        `envconfig:"TRADELINK_NOTIFICATION_DELIVERY" default:"log"`
	DispatchTimeout time.Duration `envconfig:"TRADELINK_NOTIFICATION_DISPATCH_TIMEOUT" default:"5s"`
}

func (n NotificationsConfig) validate(pubsub PubSubConfig) error {
	switch strings.ToLower(strings.TrimSpace(n.Delivery)) {
	case NotificationDeliveryLog:
		return nil
	case NotificationDeliveryPubSub:
		if !pubsub.Enabled() {
			return fmt.Errorf("%s=pubsub requires %s and %s", EnvNotificationDelivery, EnvGCPProjectID, EnvPubSubNotificationTopic)
		}
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvNotificationDelivery, n.Delivery)
	}
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.Driver = DBDriverSQLite
		db.DSN = defaultSQLiteDSN
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
