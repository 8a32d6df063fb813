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
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Store         StoreConfig
	Cache         CacheConfig
	CORS          CORSConfig
	MigrationsDir string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string

	// Location is resolved from Timezone by Validate
	Location *time.Location
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// StoreConfig selects the record store backend
type StoreConfig struct {
	Driver string
}

// CacheConfig holds query cache configuration
type CacheConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment. envFiles are loaded into the
// environment first without overriding variables that are already set; with
// no arguments ".env" is tried and may be absent. A YAML or JSON file named by
// CONFIG_PATH supplies values the environment does not set.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && (len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if configPath := v.GetString("config_path"); configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
	}

	config := &Config{
		App: AppConfig{
			Port:     v.GetInt("app_port"),
			Env:      v.GetString("app_env"),
			LogLevel: v.GetString("log_level"),
			Timezone: v.GetString("app_timezone"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetInt("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			Name:     v.GetString("db_name"),
			SSLMode:  v.GetString("db_ssl_mode"),
			MaxConns: v.GetInt32("db_max_conns"),
			MinConns: v.GetInt32("db_min_conns"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("store_driver")),
		},
		Cache: CacheConfig{
			TTL:           v.GetDuration("cache_ttl"),
			SweepInterval: v.GetDuration("cache_sweep_interval"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		},
		MigrationsDir: v.GetString("migrations_dir"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_port", 8080)
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("app_timezone", "UTC")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000")
	v.SetDefault("store_driver", StoreDriverPostgres)

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "hris_lite")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("db_max_conns", 0)
	v.SetDefault("db_min_conns", 0)

	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("cache_sweep_interval", time.Minute)
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("config_path", "")
}

// Validate validates the configuration and resolves the timezone
func (c *Config) Validate() error {
	if c.App.Port <= 0 {
		return fmt.Errorf("APP_PORT must be a positive number")
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		if c.Database.Port <= 0 {
			return fmt.Errorf("DB_PORT must be a positive number")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.Store.Driver)
	}

	location, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	c.App.Location = location

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
