package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"` // current application environment (local, dev, production)
	TelegramAPIToken string    `mapstructure:"-"`   // Telegram API token loaded from environment
	API              API       `mapstructure:"api"`
	Storage          Storage   `mapstructure:"storage"`
	DB               DB        `mapstructure:"database"`
	Redis            Redis     `mapstructure:"redis"`
	HTTP             HTTP      `mapstructure:"http"`
	Reminders        Reminders `mapstructure:"reminders"`
}

// API points at the REST backend.
type API struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Storage selects where session state is persisted.
type Storage struct {
	Driver     string `mapstructure:"driver"`      // memory, sqlite or postgres
	SQLitePath string `mapstructure:"sqlite_path"` // database file for the sqlite driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int32         `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis is the optional quote cache. An empty address disables it.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"-"`
	QuoteTTL time.Duration `mapstructure:"quote_ttl"`
}

// HTTP is the health endpoint listener. An empty address disables it.
type HTTP struct {
	Addr string `mapstructure:"addr"`
}

type Reminders struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("api.base_url", "http://localhost:5000/api")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.sqlite_path", "data/sessions.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.quote_ttl", "1m")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("reminders.enabled", true)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("api.base_url", "API_BASE_URL")
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	cfg.Redis.Password = v.GetString("redis_password")

	switch cfg.Storage.Driver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if cfg.DB.URL == "" {
			return nil, ErrMissingEnvironmentVariables
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.Storage.Driver)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return &cfg, nil
}
