package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "RENTLEDGER"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv   = "RENTLEDGER_APP_ENV"
	EnvPort     = "RENTLEDGER_APP_PORT"
	EnvDBDSN    = "RENTLEDGER_DB_DSN"
	EnvDBHost   = "RENTLEDGER_DB_HOST"
	EnvDBUser   = "RENTLEDGER_DB_USER"
	EnvDBName   = "RENTLEDGER_DB_NAME"
	EnvRedisURL = "RENTLEDGER_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Finance      FinanceConfig
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
	Env          string   `envconfig:"RENTLEDGER_APP_ENV" required:"true"`
	Port         string   `envconfig:"RENTLEDGER_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"RENTLEDGER_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"RENTLEDGER_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"RENTLEDGER_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RENTLEDGER_DB_DSN"`
	Driver string `envconfig:"RENTLEDGER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RENTLEDGER_DB_HOST"`
	LegacyPort     int    `envconfig:"RENTLEDGER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENTLEDGER_DB_USER"`
	LegacyPassword string `envconfig:"RENTLEDGER_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENTLEDGER_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENTLEDGER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENTLEDGER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTLEDGER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTLEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTLEDGER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTLEDGER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RENTLEDGER_REDIS_ADDR"`
	Password     string        `envconfig:"RENTLEDGER_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTLEDGER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTLEDGER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTLEDGER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTLEDGER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTLEDGER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTLEDGER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RENTLEDGER_AUTO_MIGRATE" default:"false"`
}

type FinanceConfig struct {
	SummaryCacheTTL time.Duration `envconfig:"RENTLEDGER_FINANCE_SUMMARY_CACHE_TTL" default:"5m"`
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
