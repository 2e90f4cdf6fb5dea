package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.MaxRounds != 2 {
		t.Errorf("MaxRounds = %d, want 2", cfg.MaxRounds)
	}
	if cfg.RankingIncludeBonus {
		t.Error("RankingIncludeBonus default should be false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("MAX_ROUNDS", "5")
	t.Setenv("RANKING_INCLUDE_BONUS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, want :9999", cfg.HTTPAddr)
	}
	if cfg.MaxRounds != 5 {
		t.Errorf("MaxRounds = %d, want 5", cfg.MaxRounds)
	}
	if !cfg.RankingIncludeBonus {
		t.Error("RankingIncludeBonus not parsed")
	}
}

func TestLoadRejectsInvalidMaxRounds(t *testing.T) {
	t.Setenv("MAX_ROUNDS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for MAX_ROUNDS=0")
	}
}
