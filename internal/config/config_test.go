package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load(t.TempDir())

	if cfg.Quality != DefaultQuality {
		t.Errorf("Quality = %q, want %q", cfg.Quality, DefaultQuality)
	}
	if cfg.SearchLimit != DefaultSearchLimit {
		t.Errorf("SearchLimit = %d, want %d", cfg.SearchLimit, DefaultSearchLimit)
	}
	if cfg.BatchConfirmThreshold != 5 {
		t.Errorf("BatchConfirmThreshold = %d, want 5", cfg.BatchConfirmThreshold)
	}
	if cfg.ARL != "" {
		t.Errorf("ARL should default empty, got %q", cfg.ARL)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Load(dir)
	cfg.ARL = "secret-token"
	cfg.Quality = "FLAC"
	cfg.OutputDir = "/music"
	cfg.SearchLimit = 50
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Load(dir)
	if loaded.ARL != "secret-token" || loaded.Quality != "FLAC" || loaded.OutputDir != "/music" || loaded.SearchLimit != 50 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Load(dir)
	if cfg.Quality != DefaultQuality {
		t.Errorf("corrupt file should yield defaults, got quality %q", cfg.Quality)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := Load(t.TempDir())
		cfg.OutputDir = "/music"
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg := base()
	cfg.Quality = "256"
	if err := cfg.Validate(); err == nil {
		t.Error("expected invalid quality to be rejected")
	}

	cfg = base()
	cfg.SearchLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected zero search limit to be rejected")
	}

	cfg = base()
	cfg.SearchLimit = 101
	if err := cfg.Validate(); err == nil {
		t.Error("expected oversize search limit to be rejected")
	}

	cfg = base()
	cfg.OutputDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected empty output dir to be rejected")
	}
}

func TestSet(t *testing.T) {
	cfg := Load(t.TempDir())

	if err := cfg.Set("arl", "tok"); err != nil || cfg.ARL != "tok" {
		t.Errorf("set arl: err=%v value=%q", err, cfg.ARL)
	}
	if err := cfg.Set("quality", "FLAC"); err != nil || cfg.Quality != "FLAC" {
		t.Errorf("set quality: err=%v value=%q", err, cfg.Quality)
	}
	if err := cfg.Set("quality", "bogus"); err == nil {
		t.Error("expected invalid quality to error")
	}
	if err := cfg.Set("search_limit", "42"); err != nil || cfg.SearchLimit != 42 {
		t.Errorf("set search_limit: err=%v value=%d", err, cfg.SearchLimit)
	}
	if err := cfg.Set("search_limit", "200"); err == nil {
		t.Error("expected out-of-range search limit to error")
	}
	if err := cfg.Set("search_limit", "abc"); err == nil {
		t.Error("expected non-numeric search limit to error")
	}
	if err := cfg.Set("nope", "x"); err == nil {
		t.Error("expected unknown key to error")
	}
}
