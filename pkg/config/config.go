package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	Coupons      CouponConfig
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
	Env          string `envconfig:"LARISIN_APP_ENV" required:"true"`
	Port         string `envconfig:"LARISIN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LARISIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LARISIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LARISIN_DB_DSN"`
	Driver string `envconfig:"LARISIN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LARISIN_DB_HOST"`
	LegacyPort     int    `envconfig:"LARISIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LARISIN_DB_USER"`
	LegacyPassword string `envconfig:"LARISIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"LARISIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"LARISIN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LARISIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LARISIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LARISIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LARISIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LARISIN_REDIS_URL"`
	Address      string        `envconfig:"LARISIN_REDIS_ADDR"`
	Password     string        `envconfig:"LARISIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"LARISIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LARISIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LARISIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LARISIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LARISIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LARISIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig holds the flat order-level fees applied at quote time.
// Amounts are whole currency units; shipping tiers live in the pricing
// package's fee table.
type PricingConfig struct {
	TaxPerOrder int64 `envconfig:"LARISIN_PRICING_TAX_PER_ORDER" default:"2000"`
}

type CouponConfig struct {
	CodeLength       int `envconfig:"LARISIN_COUPON_CODE_LENGTH" default:"8"`
	CodeMaxAttempts  int `envconfig:"LARISIN_COUPON_CODE_MAX_ATTEMPTS" default:"5"`
	IdempotencyHours int `envconfig:"LARISIN_COUPON_IDEMPOTENCY_HOURS" default:"168"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LARISIN_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
