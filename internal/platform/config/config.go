package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	defaultJWTSecret = "defaultsecret"
)

type Config struct {
	Env      string `env:"APP_ENV,default=development"`
	APIHost  string `env:"API_HOST,default=0.0.0.0"`
	APIPort  string `env:"API_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	JWTSecret       string        `env:"JWT_SECRET,default=defaultsecret"`
	JWTAlgorithm    string        `env:"JWT_ALGORITHM,default=HS256"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,default=30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL,default=10h"`

	DBDriver          string        `env:"DB_DRIVER,default=postgres"`
	DBHost            string        `env:"DB_HOST,default=localhost"`
	DBPort            string        `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,default=user"`
	DBPassword        string        `env:"DB_PASSWORD,default=password"`
	DBName            string        `env:"DB_NAME,default=starter_api"`
	DBSslMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=5m"`

	// An empty RedisAddr disables the content cache.
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB,default=0"`
	ContentCacheTTL time.Duration `env:"CONTENT_CACHE_TTL,default=1m"`

	SlugStrategy string `env:"CONTENT_SLUG_STRATEGY,default=simple"`
}

// Load reads .env files (if present) and the process environment.
func Load() (*Config, error) {
	if env := os.Getenv("APP_ENV"); env != "" {
		_ = godotenv.Load(".env." + env)
	}
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Env, validation.Required, validation.In(EnvDevelopment, EnvProduction, EnvTesting)),
		validation.Field(&c.APIPort, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.By(validLogLevel)),
		validation.Field(&c.JWTSecret, validation.Required, validation.By(c.productionSecret)),
		validation.Field(&c.JWTAlgorithm, validation.Required, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&c.AccessTokenTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RefreshTokenTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.DBDriver, validation.Required, validation.In(DriverPostgres, DriverMemory)),
		validation.Field(&c.SlugStrategy, validation.In("simple", "unicode")),
	)
}

func (c *Config) productionSecret(value interface{}) error {
	if c.Env == EnvProduction && value == defaultJWTSecret {
		return errors.New("the default secret must not be used in production")
	}
	return nil
}

func validLogLevel(value interface{}) error {
	s, _ := value.(string)
	var level slog.Level
	return level.UnmarshalText([]byte(s))
}

// SlogLevel returns the configured level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.APIHost + ":" + c.APIPort
}

// DSN is the pgx connection string.
func (c *Config) DSN() string {
	parts := []string{
		"host=" + c.DBHost,
		"port=" + c.DBPort,
		"user=" + c.DBUser,
		"password=" + c.DBPassword,
		"dbname=" + c.DBName,
		"sslmode=" + c.DBSslMode,
	}
	return strings.Join(parts, " ")
}
