package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Errorf("Server.Port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 10 {
		t.Errorf("Search.DefaultLimit = %d, want 10", cfg.Search.DefaultLimit)
	}
	if cfg.Search.MaxLimit != 200 {
		t.Errorf("Search.MaxLimit = %d, want 200", cfg.Search.MaxLimit)
	}
	if cfg.Postgres.Enabled() {
		t.Error("Postgres should be disabled by default")
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis should be disabled by default")
	}
	if cfg.Kafka.Enabled() {
		t.Error("Kafka should be disabled by default")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics should be enabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
server:
  port: 9000
  readTimeout: 5s
postgres:
  host: db.internal
  database: docs
redis:
  addr: cache.internal:6379
  cacheTTL: 90s
kafka:
  brokers: ["broker1:9092", "broker2:9092"]
search:
  defaultLimit: 25
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if !cfg.Postgres.Enabled() || cfg.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q, want db.internal", cfg.Postgres.Host)
	}
	if cfg.Redis.CacheTTL != 90*time.Second {
		t.Errorf("Redis.CacheTTL = %v, want 90s", cfg.Redis.CacheTTL)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Kafka.Brokers = %v, want 2 brokers", cfg.Kafka.Brokers)
	}
	if cfg.Search.DefaultLimit != 25 {
		t.Errorf("Search.DefaultLimit = %d, want 25", cfg.Search.DefaultLimit)
	}
	// Unset file values keep defaults.
	if cfg.Server.WriteTimeout != 15*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want default 15s", cfg.Server.WriteTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PS_SERVER_PORT", "7070")
	t.Setenv("PS_POSTGRES_HOST", "pg.override")
	t.Setenv("PS_REDIS_ADDR", "redis.override:6379")
	t.Setenv("PS_KAFKA_BROKERS", "a:9092,b:9092,c:9092")
	t.Setenv("PS_SEARCH_DEFAULT_LIMIT", "15")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Postgres.Host != "pg.override" {
		t.Errorf("Postgres.Host = %q, want pg.override", cfg.Postgres.Host)
	}
	if cfg.Redis.Addr != "redis.override:6379" {
		t.Errorf("Redis.Addr = %q, want redis.override:6379", cfg.Redis.Addr)
	}
	if len(cfg.Kafka.Brokers) != 3 {
		t.Errorf("Kafka.Brokers = %v, want 3 brokers", cfg.Kafka.Brokers)
	}
	if cfg.Search.DefaultLimit != 15 {
		t.Errorf("Search.DefaultLimit = %d, want 15", cfg.Search.DefaultLimit)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "localhost", Port: 5432, User: "app", Password: "secret",
		Database: "docs", SSLMode: "disable",
	}
	const want = "host=localhost port=5432 user=app password=secret dbname=docs sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
