package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FLOWY_API_KEY", "secret")

	cfg, err := Load(NewViper(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8000" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.Backend != BackendRedis {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis.addr = %q", cfg.Redis.Addr)
	}
	if cfg.Redis.DialTimeout != 5*time.Second {
		t.Errorf("redis.dial_timeout = %v", cfg.Redis.DialTimeout)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("shutdown_timeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("max_body_bytes = %d", cfg.MaxBodyBytes)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("FLOWY_API_KEY", "")
	t.Setenv("API_KEY", "")

	if _, err := Load(NewViper(), ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestLoadLegacyAPIKeyEnv(t *testing.T) {
	t.Setenv("FLOWY_API_KEY", "")
	t.Setenv("API_KEY", "legacy")

	cfg, err := Load(NewViper(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "legacy" {
		t.Fatalf("api_key = %q, want legacy", cfg.APIKey)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FLOWY_API_KEY", "secret")
	t.Setenv("FLOWY_BACKEND", "neo4j")
	t.Setenv("FLOWY_REDIS_KEY_PREFIX", "flowy:")
	t.Setenv("FLOWY_REDIS_READ_TIMEOUT", "750ms")
	t.Setenv("FLOWY_NEO4J_URI", "neo4j://localhost:7687")

	cfg, err := Load(NewViper(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendNeo4j {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.Redis.KeyPrefix != "flowy:" {
		t.Errorf("key_prefix = %q", cfg.Redis.KeyPrefix)
	}
	if cfg.Redis.ReadTimeout != 750*time.Millisecond {
		t.Errorf("read_timeout = %v", cfg.Redis.ReadTimeout)
	}
	if cfg.Neo4j.URI != "neo4j://localhost:7687" {
		t.Errorf("neo4j.uri = %q", cfg.Neo4j.URI)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("FLOWY_API_KEY", "")
	t.Setenv("API_KEY", "")

	path := filepath.Join(t.TempDir(), "flowy.yaml")
	body := "api_key: from-file\naddr: \":9090\"\nredis:\n  addr: localhost:6380\n  db: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(NewViper(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "from-file" || cfg.Addr != ":9090" {
		t.Errorf("unexpected cfg: %+v", cfg)
	}
	if cfg.Redis.Addr != "localhost:6380" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis cfg: %+v", cfg.Redis)
	}
}

func TestValidateUnknownBackend(t *testing.T) {
	cfg := Config{APIKey: "k", Backend: "memcached", MaxBodyBytes: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestInitRedisURL(t *testing.T) {
	client, err := InitRedis(RedisConfig{URL: "redis://:pw@localhost:6390/3"})
	if err != nil {
		t.Fatalf("InitRedis: %v", err)
	}
	defer client.Close()

	opts := client.Options()
	if opts.Addr != "localhost:6390" || opts.DB != 3 || opts.Password != "pw" {
		t.Fatalf("unexpected options: addr=%s db=%d", opts.Addr, opts.DB)
	}

	if _, err := InitRedis(RedisConfig{URL: "http://nope"}); err == nil {
		t.Fatal("expected error for non-redis url")
	}
}
