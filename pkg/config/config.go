package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is the namespace shared by every environment variable.
	EnvPrefix = "AUREUS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Cron         CronConfig
	Lifecycle    LifecycleConfig
	Webhooks     WebhookConfig
	Feeds        FeedConfig
	Inventory    InventoryConfig
	Audit        AuditConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AUREUS_APP_ENV" default:"dev"`
	Port         string `envconfig:"AUREUS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"AUREUS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AUREUS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AUREUS_DB_DSN"`
	Driver string `envconfig:"AUREUS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"AUREUS_DB_HOST"`
	Port     int    `envconfig:"AUREUS_DB_PORT" default:"5432"`
	User     string `envconfig:"AUREUS_DB_USER"`
	Password string `envconfig:"AUREUS_DB_PASSWORD"`
	Name     string `envconfig:"AUREUS_DB_NAME"`
	SSLMode  string `envconfig:"AUREUS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUREUS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUREUS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUREUS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUREUS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"AUREUS_REDIS_URL"`
	Address      string        `envconfig:"AUREUS_REDIS_ADDR"`
	Password     string        `envconfig:"AUREUS_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUREUS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUREUS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUREUS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUREUS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUREUS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUREUS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"AUREUS_CRON_INTERVAL" default:"30s"`
	LockTTL  time.Duration `envconfig:"AUREUS_CRON_LOCK_TTL" default:"5m"`
}

// LifecycleConfig sets the delay between order status transitions and the
// delivery success rate applied at the terminal stage.
type LifecycleConfig struct {
	ProcessingDelay time.Duration `envconfig:"AUREUS_LIFECYCLE_PROCESSING_DELAY" default:"5s"`
	ShippingDelay   time.Duration `envconfig:"AUREUS_LIFECYCLE_SHIPPING_DELAY" default:"10s"`
	DeliveryDelay   time.Duration `envconfig:"AUREUS_LIFECYCLE_DELIVERY_DELAY" default:"10s"`
	DeliveredRate   float64       `envconfig:"AUREUS_LIFECYCLE_DELIVERED_RATE" default:"0.9"`
}

// WebhookConfig controls outbound webhook dispatch. Mode "simulate" draws a
// synthetic latency and success outcome; mode "http" performs a real POST.
type WebhookConfig struct {
	Mode        string        `envconfig:"AUREUS_WEBHOOK_MODE" default:"simulate"`
	URL         string        `envconfig:"AUREUS_WEBHOOK_URL"`
	Events      []string      `envconfig:"AUREUS_WEBHOOK_EVENTS" default:"order_status,low_stock"`
	SuccessRate float64       `envconfig:"AUREUS_WEBHOOK_SUCCESS_RATE" default:"0.85"`
	LatencyMin  time.Duration `envconfig:"AUREUS_WEBHOOK_LATENCY_MIN" default:"200ms"`
	LatencyMax  time.Duration `envconfig:"AUREUS_WEBHOOK_LATENCY_MAX" default:"1500ms"`
	Timeout     time.Duration `envconfig:"AUREUS_WEBHOOK_TIMEOUT" default:"10s"`
}

// EventEnabled reports whether the named event may be dispatched.
func (w WebhookConfig) EventEnabled(event string) bool {
	for _, candidate := range w.Events {
		if strings.EqualFold(strings.TrimSpace(candidate), event) {
			return true
		}
	}
	return false
}

type FeedConfig struct {
	BaseURL         string        `envconfig:"AUREUS_FEED_BASE_URL" default:"https://aureusmetals.com"`
	Brand           string        `envconfig:"AUREUS_FEED_BRAND" default:"Aureus Metals"`
	RefreshInterval time.Duration `envconfig:"AUREUS_FEED_REFRESH_INTERVAL" default:"15m"`
	CacheTTL        time.Duration `envconfig:"AUREUS_FEED_CACHE_TTL" default:"1h"`
}

type InventoryConfig struct {
	LowStockNotifyInterval time.Duration `envconfig:"AUREUS_LOW_STOCK_NOTIFY_INTERVAL" default:"1h"`
}

type AuditConfig struct {
	MaxEntries int `envconfig:"AUREUS_AUDIT_MAX_ENTRIES" default:"100"`
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"AUREUS_AUTO_MIGRATE" default:"false"`
	SeedDemoData bool `envconfig:"AUREUS_SEED_DEMO_DATA" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:aureus.db?_fk=1"
		return nil
	}

	missing := []string{}
	for _, pair := range []struct {
		env   string
		value string
	}{
		{"AUREUS_DB_HOST", db.Host},
		{"AUREUS_DB_USER", db.User},
		{"AUREUS_DB_NAME", db.Name},
	} {
		if pair.value == "" {
			missing = append(missing, pair.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either AUREUS_DB_DSN or %s are required", strings.Join(missing, ", "))
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
