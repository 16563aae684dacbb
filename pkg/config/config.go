package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const (
	EnvPrefix = "GEMVAULT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "GEMVAULT_APP_ENV"
	EnvPort       = "GEMVAULT_APP_PORT"
	EnvDBDSN      = "GEMVAULT_DB_DSN"
	EnvDBHost     = "GEMVAULT_DB_HOST"
	EnvDBUser     = "GEMVAULT_DB_USER"
	EnvDBName     = "GEMVAULT_DB_NAME"
	EnvRedisURL   = "GEMVAULT_REDIS_URL"
	EnvJWTSecret  = "GEMVAULT_JWT_SECRET"
	EnvJWTIssuer  = "GEMVAULT_JWT_ISSUER"
	EnvStorePhone = "GEMVAULT_STORE_WHATSAPP_PHONE"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Analytics AnalyticsConfig
	Orders    OrdersConfig
	Store     StoreConfig
	Cron      CronConfig
	BigQuery  BigQueryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express and reports every violation at once.
func (c *Config) Validate() error {
	var err error
	if len(c.JWT.Secret) < 16 {
		err = multierr.Append(err, errors.New("jwt secret must be at least 16 characters"))
	}
	if c.Analytics.RefreshCooldown <= 0 {
		err = multierr.Append(err, errors.New("analytics refresh cooldown must be positive"))
	}
	if c.Analytics.StalenessThreshold <= 0 {
		err = multierr.Append(err, errors.New("analytics staleness threshold must be positive"))
	}
	if c.Analytics.TopProductsLimit <= 0 {
		err = multierr.Append(err, errors.New("analytics top products limit must be positive"))
	}
	if c.Orders.StaleOrderThreshold <= 0 {
		err = multierr.Append(err, errors.New("stale order threshold must be positive"))
	}
	if c.Orders.ShippingFee.IsNegative() {
		err = multierr.Append(err, errors.New("shipping fee cannot be negative"))
	}
	if c.BigQuery.Enabled && (c.BigQuery.ProjectID == "" || c.BigQuery.Dataset == "") {
		err = multierr.Append(err, errors.New("bigquery export requires project id and dataset"))
	}
	return err
}

type AppConfig struct {
	Env           string `envconfig:"GEMVAULT_APP_ENV" required:"true"`
	Port          string `envconfig:"GEMVAULT_APP_PORT" default:"8080"`
	ServiceName   string `envconfig:"GEMVAULT_SERVICE_NAME" default:"gemvault-api"`
	LogLevel      string `envconfig:"GEMVAULT_LOG_LEVEL" default:"info"`
	LogWarnStack  bool   `envconfig:"GEMVAULT_LOG_WARN_STACK" default:"false"`
	AutoMigrate   bool   `envconfig:"GEMVAULT_AUTO_MIGRATE" default:"false"`
	PublicBaseURL string `envconfig:"GEMVAULT_PUBLIC_BASE_URL" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GEMVAULT_DB_DSN"`

	Host     string `envconfig:"GEMVAULT_DB_HOST"`
	Port     int    `envconfig:"GEMVAULT_DB_PORT" default:"5432"`
	User     string `envconfig:"GEMVAULT_DB_USER"`
	Password string `envconfig:"GEMVAULT_DB_PASSWORD"`
	Name     string `envconfig:"GEMVAULT_DB_NAME"`
	SSLMode  string `envconfig:"GEMVAULT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GEMVAULT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GEMVAULT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GEMVAULT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GEMVAULT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GEMVAULT_REDIS_URL"`
	Address      string        `envconfig:"GEMVAULT_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"GEMVAULT_REDIS_PASSWORD"`
	DB           int           `envconfig:"GEMVAULT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GEMVAULT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GEMVAULT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GEMVAULT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GEMVAULT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"GEMVAULT_REDIS_WRITE_TIMEOUT" default:"3s"`
	KeyPrefix    string        `envconfig:"GEMVAULT_REDIS_KEY_PREFIX" default:"gemvault"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GEMVAULT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GEMVAULT_JWT_ISSUER" default:"gemvault"`
	ExpirationMinutes int    `envconfig:"GEMVAULT_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTTL is the lifetime of an admin access token and its session.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GEMVAULT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GEMVAULT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GEMVAULT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GEMVAULT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GEMVAULT_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	PublicRequestsPerMinute int           `envconfig:"GEMVAULT_RATE_LIMIT_PUBLIC_RPM" default:"120"`
	AdminRequestsPerMinute  int           `envconfig:"GEMVAULT_RATE_LIMIT_ADMIN_RPM" default:"600"`
	LoginLimit              int           `envconfig:"GEMVAULT_RATE_LIMIT_LOGIN_LIMIT" default:"5"`
	LoginWindow             time.Duration `envconfig:"GEMVAULT_RATE_LIMIT_LOGIN_WINDOW" default:"5m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GEMVAULT_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

type AnalyticsConfig struct {
	StalenessThreshold time.Duration `envconfig:"GEMVAULT_ANALYTICS_STALENESS_THRESHOLD" default:"6h"`
	RefreshCooldown    time.Duration `envconfig:"GEMVAULT_ANALYTICS_REFRESH_COOLDOWN" default:"5m"`
	TopProductsLimit   int           `envconfig:"GEMVAULT_ANALYTICS_TOP_PRODUCTS_LIMIT" default:"10"`
	MonthlyTrendMonths int           `envconfig:"GEMVAULT_ANALYTICS_MONTHLY_TREND_MONTHS" default:"12"`
	SnapshotCacheTTL   time.Duration `envconfig:"GEMVAULT_ANALYTICS_SNAPSHOT_CACHE_TTL" default:"10m"`
}

type OrdersConfig struct {
	StaleOrderThreshold time.Duration   `envconfig:"GEMVAULT_ORDERS_STALE_THRESHOLD" default:"6h"`
	ShippingFee         decimal.Decimal `envconfig:"GEMVAULT_ORDERS_SHIPPING_FEE" default:"0"`
}

type StoreConfig struct {
	Name                string `envconfig:"GEMVAULT_STORE_NAME" default:"GemVault Jewelry"`
	WhatsAppPhone       string `envconfig:"GEMVAULT_STORE_WHATSAPP_PHONE" required:"true"`
	DefaultCountryCode  string `envconfig:"GEMVAULT_STORE_COUNTRY_CODE" default:"1"`
	Currency            string `envconfig:"GEMVAULT_STORE_CURRENCY" default:"USD"`
	Language            string `envconfig:"GEMVAULT_STORE_LANGUAGE" default:"en"`
	PaymentInstructions string `envconfig:"GEMVAULT_STORE_PAYMENT_INSTRUCTIONS" default:"Scan the QR code to complete your payment and reply with the receipt."`
	PaymentQRURL        string `envconfig:"GEMVAULT_STORE_PAYMENT_QR_URL"`
}

type CronConfig struct {
	Interval             time.Duration `envconfig:"GEMVAULT_CRON_INTERVAL" default:"15m"`
	LockTTL              time.Duration `envconfig:"GEMVAULT_CRON_LOCK_TTL" default:"10m"`
	AnalyticsAutoRefresh bool          `envconfig:"GEMVAULT_CRON_ANALYTICS_AUTO_REFRESH" default:"true"`
}

type BigQueryConfig struct {
	Enabled         bool   `envconfig:"GEMVAULT_BIGQUERY_ENABLED" default:"false"`
	ProjectID       string `envconfig:"GEMVAULT_BIGQUERY_PROJECT_ID"`
	Dataset         string `envconfig:"GEMVAULT_BIGQUERY_DATASET" default:"gemvault"`
	HistoryTable    string `envconfig:"GEMVAULT_BIGQUERY_HISTORY_TABLE" default:"analytics_history"`
	CredentialsJSON string `envconfig:"GEMVAULT_BIGQUERY_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"GEMVAULT_GOOGLE_APPLICATION_CREDENTIALS"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{EnvDBHost: db.Host, EnvDBUser: db.User, EnvDBName: db.Name} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
