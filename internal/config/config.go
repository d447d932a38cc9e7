package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported storage drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds everything the process needs at start-up. It is built once and passed down.
type Config struct {
	AppPort     string
	APIPrefix   string
	LogLevel    string
	CORSOrigins string
	UploadDir   string
	SecretKey   string
	Database    DatabaseConfig
	RabbitMQURL string
	Redis       RedisConfig
	RateLimit   RateLimitConfig
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Driver       string
	MongoURL     string
	Name         string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig points at the Redis instance backing the rate limiter. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig describes the token bucket applied to public write endpoints.
type RateLimitConfig struct {
	Capacity       int
	RefillInterval time.Duration
	Prefix         string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "printstudio")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_CAPACITY", 20)
	v.SetDefault("RATE_LIMIT_REFILL_INTERVAL", "3s")
	v.SetDefault("RATE_LIMIT_PREFIX", "rl")
}

func newViper() *viper.Viper {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

// Load reads an optional .env file and the environment into a Config.
func Load() (*Config, error) {
	return FromViper(newViper())
}

// LoadStorage reads the same sources as Load but only requires valid database
// settings. Operator tooling that never signs tokens uses it.
func LoadStorage() (*Config, error) {
	cfg := build(newViper())
	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := build(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build(v *viper.Viper) *Config {
	return &Config{
		AppPort:     v.GetString("APP_PORT"),
		APIPrefix:   v.GetString("API_PREFIX"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		CORSOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		UploadDir:   v.GetString("UPLOAD_DIR"),
		SecretKey:   v.GetString("SECRET_KEY"),
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			MongoURL:     v.GetString("MONGO_URL"),
			Name:         v.GetString("DB_NAME"),
			DSN:          v.GetString("DATABASE_DSN"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Capacity:       v.GetInt("RATE_LIMIT_CAPACITY"),
			RefillInterval: v.GetDuration("RATE_LIMIT_REFILL_INTERVAL"),
			Prefix:         v.GetString("RATE_LIMIT_PREFIX"),
		},
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must be set")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.RateLimit.Capacity < 1 {
		c.RateLimit.Capacity = 1
	}
	if c.RateLimit.RefillInterval <= 0 {
		c.RateLimit.RefillInterval = time.Second
	}
	return nil
}

// Validate checks that the selected driver has its connection settings.
func (d DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverMongo:
		if d.MongoURL == "" || d.Name == "" {
			return errors.New("MONGO_URL and DB_NAME must be set for the mongo driver")
		}
	case DriverPostgres, DriverSQLite:
		if d.DSN == "" {
			return fmt.Errorf("DATABASE_DSN must be set for the %s driver", d.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
	return nil
}
