package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, poll intervals, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	CORS   CORSConfig
	Log    LogConfig
	JWT    JWTConfig
	Cart   CartConfig
	Store  StoreConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Session-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// CartConfig tunes cart persistence and the inventory-hold watchdog.
type CartConfig struct {
	// StorageKeyPrefix namespaces persisted cart blobs so multiple
	// storefronts can share one database.
	StorageKeyPrefix string        `envconfig:"CART_STORAGE_KEY_PREFIX" default:"cedros-cart"`
	SyncDebounce     time.Duration `envconfig:"CART_SYNC_DEBOUNCE" default:"800ms"`
	HoldsEnabled     bool          `envconfig:"CART_HOLDS_ENABLED" default:"true"`
	HoldTTL          time.Duration `envconfig:"CART_HOLD_TTL" default:"10m"`
	WatchdogInterval time.Duration `envconfig:"CART_WATCHDOG_INTERVAL" default:"10s"`
	ExpiringSoon     time.Duration `envconfig:"CART_EXPIRING_SOON_WINDOW" default:"2m"`
	CacheTTL         time.Duration `envconfig:"CART_CACHE_TTL" default:"15m"`
}

// StoreConfig holds the store-level checkout policy that seeds
// checkout-requirement derivation.
type StoreConfig struct {
	// none / optional / required
	EmailMode          string `envconfig:"STORE_EMAIL_MODE" default:"required"`
	DefaultContactMode string `envconfig:"STORE_DEFAULT_CONTACT_MODE" default:"optional"`
	ShippingAllowed    bool   `envconfig:"STORE_SHIPPING_ALLOWED" default:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		Cart: CartConfig{
			StorageKeyPrefix: "test-cart",
			SyncDebounce:     10 * time.Millisecond,
			HoldsEnabled:     true,
			HoldTTL:          time.Minute,
			WatchdogInterval: 10 * time.Second,
			ExpiringSoon:     2 * time.Minute,
			CacheTTL:         time.Minute,
		},
		Store: StoreConfig{
			EmailMode:          "required",
			DefaultContactMode: "optional",
			ShippingAllowed:    true,
		},
	}
}
