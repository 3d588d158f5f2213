package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Catalog sources.
const (
	CatalogSourceStatic   = "static"
	CatalogSourcePostgres = "postgres"
)

// Session stores.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Catalog  CatalogConfig
	Database DatabaseConfig
	Sessions SessionConfig
	Redis    RedisConfig
	Payments PaymentsConfig
	Receipts ReceiptsConfig
	Metrics  MetricsConfig
	CORS     CORSConfig
	Log      LogConfig
}

// CatalogConfig selects where courses and schedule entries are read from.
type CatalogConfig struct {
	Source         string
	MigrationsPath string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// URL renders the database settings as a postgres:// URL for tools that need one.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// SessionConfig controls form session storage.
type SessionConfig struct {
	Store string
	TTL   time.Duration
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// PaymentsConfig tunes the simulated payment processing.
type PaymentsConfig struct {
	CardDelay    time.Duration
	UPIAppDelay  time.Duration
	TaxRateBasis int64
}

// ReceiptsConfig configures signed receipt links.
type ReceiptsConfig struct {
	SigningSecret string
	LinkTTL       time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Catalog = CatalogConfig{
		Source:         strings.ToLower(v.GetString("CATALOG_SOURCE")),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Sessions = SessionConfig{
		Store: strings.ToLower(v.GetString("SESSION_STORE")),
		TTL:   parseDuration(v.GetString("SESSION_TTL"), 2*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:      v.GetString("REDIS_HOST"),
		Port:      v.GetInt("REDIS_PORT"),
		Password:  v.GetString("REDIS_PASSWORD"),
		DB:        v.GetInt("REDIS_DB"),
		KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
	}

	taxRate := v.GetInt64("PAYMENT_TAX_RATE_BPS")
	if taxRate < 0 {
		taxRate = 1800
	}
	cfg.Payments = PaymentsConfig{
		CardDelay:    parseDuration(v.GetString("PAYMENT_CARD_DELAY"), 3*time.Second),
		UPIAppDelay:  parseDuration(v.GetString("PAYMENT_UPI_APP_DELAY"), 2*time.Second),
		TaxRateBasis: taxRate,
	}

	cfg.Receipts = ReceiptsConfig{
		SigningSecret: v.GetString("RECEIPT_SIGNING_SECRET"),
		LinkTTL:       parseDuration(v.GetString("RECEIPT_LINK_TTL"), 30*time.Minute),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("CATALOG_SOURCE", CatalogSourceStatic)
	v.SetDefault("MIGRATIONS_PATH", "migrations")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "delhi_safety_academy")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("SESSION_STORE", SessionStoreMemory)
	v.SetDefault("SESSION_TTL", "2h")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "dsa:session:")

	v.SetDefault("PAYMENT_CARD_DELAY", "3s")
	v.SetDefault("PAYMENT_UPI_APP_DELAY", "2s")
	v.SetDefault("PAYMENT_TAX_RATE_BPS", 1800)

	v.SetDefault("RECEIPT_SIGNING_SECRET", "dev_receipt_secret")
	v.SetDefault("RECEIPT_LINK_TTL", "30m")

	v.SetDefault("ENABLE_METRICS", true)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
