package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("POS_DB_PATH", "")
	t.Setenv("POS_SEED_DEMO", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.DBPath != "warungpos.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if !cfg.SeedDemo {
		t.Fatalf("expected seeding on by default")
	}
	if cfg.InMemory() {
		t.Fatalf("file path should not select the in-memory store")
	}
}

func TestLoadInMemorySelector(t *testing.T) {
	t.Setenv("POS_DB_PATH", ":memory:")
	t.Setenv("POS_SEED_DEMO", "false")

	cfg := Load()
	if !cfg.InMemory() {
		t.Fatalf("expected :memory: to select the in-memory store")
	}
	if cfg.SeedDemo {
		t.Fatalf("expected seeding disabled")
	}
}

func TestAddress(t *testing.T) {
	t.Setenv("PORT", "9191")
	if got := Load().Address(); got != ":9191" {
		t.Fatalf("expected :9191, got %q", got)
	}
}
