package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: aegis-gateway
redis:
  enabled: false
  tls: false
  host: localhost
`)
	t.Setenv("AEGIS_REDIS_ENABLED", "true")
	t.Setenv("AEGIS_REDIS_TLS", "true")
	t.Setenv("AEGIS_REDIS_HOST", "redis.internal")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis.enabled not overridden from env")
	}
	if !cfg.Redis.TLS {
		t.Error("redis.tls not overridden from env")
	}
	if cfg.Redis.Host != "redis.internal" {
		t.Errorf("redis.host = %q, want redis.internal", cfg.Redis.Host)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "app:\n  name: aegis-gateway\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers.Timeout != 10*time.Second {
		t.Errorf("providers.timeout = %s, want 10s", cfg.Providers.Timeout)
	}
	if cfg.Providers.MaxTokens != 1024 {
		t.Errorf("providers.max_tokens = %d, want 1024", cfg.Providers.MaxTokens)
	}
	if cfg.Memory.Backend != "memory" {
		t.Errorf("memory.backend = %q, want memory", cfg.Memory.Backend)
	}
	if cfg.Memory.MaxEntries != 20 {
		t.Errorf("memory.max_entries = %d, want 20", cfg.Memory.MaxEntries)
	}
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{
		User: "aegis", Password: "pw", Host: "db", Port: 5432,
		DBName: "aegis", SSLMode: "disable", Schema: "public",
	}
	want := "postgres://aegis:pw@db:5432/aegis?sslmode=disable&search_path=public"
	if got := c.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
