package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected default port 9090, got %d", cfg.Port)
	}
	if cfg.StoreBackend != StoreSQLite {
		t.Errorf("expected default store backend sqlite, got %s", cfg.StoreBackend)
	}
	if cfg.MaxNotifications != nil {
		t.Errorf("expected nil MaxNotifications override, got %d", *cfg.MaxNotifications)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache.local")
	t.Setenv("NOTIFY_MAX_ACTIVE", "8")
	t.Setenv("NOTIFY_SOUND", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.Port)
	}
	if cfg.StoreBackend != StoreRedis {
		t.Errorf("expected redis backend, got %s", cfg.StoreBackend)
	}
	if cfg.RedisHost != "cache.local" {
		t.Errorf("expected redis host cache.local, got %s", cfg.RedisHost)
	}
	if cfg.MaxNotifications == nil || *cfg.MaxNotifications != 8 {
		t.Errorf("expected MaxNotifications override 8, got %v", cfg.MaxNotifications)
	}
	if cfg.SoundEnabled == nil || *cfg.SoundEnabled {
		t.Errorf("expected sound disabled, got %v", cfg.SoundEnabled)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unsupported STORE_BACKEND")
	}
}
