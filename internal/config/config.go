package config

import (
	"fmt"
	"os"
	"strconv"
)

// Store backends for the notification engine's durable documents.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	Port     int
	LogLevel string
	Env      string

	// Durable store for settings, history, and do-not-disturb state
	StoreBackend string
	SQLitePath   string

	// Redis config (STORE_BACKEND=redis)
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Engine setting overrides; nil means "keep stored/default value"
	MaxNotifications  *int
	DefaultDurationMs *int
	GroupSimilar      *bool
	PersistHistory    *bool
	SoundEnabled      *bool
	VibrationEnabled  *bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:     9090,
		LogLevel: "info",
		Env:      "development",

		// Standalone installs persist to a local sqlite file by default
		StoreBackend: StoreSQLite,
		SQLitePath:   "notify.db",

		// Redis defaults
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Port = p
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if env := os.Getenv("ENV"); env != "" {
		cfg.Env = env
	}

	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		switch backend {
		case StoreMemory, StoreRedis, StoreSQLite:
			cfg.StoreBackend = backend
		default:
			return nil, fmt.Errorf("invalid STORE_BACKEND: %q (expected memory, redis, or sqlite)", backend)
		}
	}

	if path := os.Getenv("SQLITE_PATH"); path != "" {
		cfg.SQLitePath = path
	}

	// Redis config
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.RedisHost = host
	}

	if port := os.Getenv("REDIS_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
		}
		cfg.RedisPort = p
	}

	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.RedisPassword = password
	}

	if db := os.Getenv("REDIS_DB"); db != "" {
		d, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = d
	}

	// Engine setting overrides
	var err error
	if cfg.MaxNotifications, err = optionalInt("NOTIFY_MAX_ACTIVE"); err != nil {
		return nil, err
	}
	if cfg.DefaultDurationMs, err = optionalInt("NOTIFY_DEFAULT_DURATION_MS"); err != nil {
		return nil, err
	}
	if cfg.GroupSimilar, err = optionalBool("NOTIFY_GROUP_SIMILAR"); err != nil {
		return nil, err
	}
	if cfg.PersistHistory, err = optionalBool("NOTIFY_PERSIST_HISTORY"); err != nil {
		return nil, err
	}
	if cfg.SoundEnabled, err = optionalBool("NOTIFY_SOUND"); err != nil {
		return nil, err
	}
	if cfg.VibrationEnabled, err = optionalBool("NOTIFY_VIBRATION"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// optionalInt parses an env var that overrides a stored engine setting;
// unset variables return nil so the stored value wins.
func optionalInt(key string) (*int, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &n, nil
}

func optionalBool(key string) (*bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &b, nil
}
