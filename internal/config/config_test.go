package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Currency != "MXN" {
		t.Errorf("Currency = %q, want MXN", cfg.Currency)
	}
	if cfg.Dispatch.Delay != 500*time.Millisecond {
		t.Errorf("Dispatch.Delay = %v, want 500ms", cfg.Dispatch.Delay)
	}
	if cfg.Dispatch.Workers != 1 {
		t.Errorf("Dispatch.Workers = %d, want 1", cfg.Dispatch.Workers)
	}
	if cfg.CloudEnabled() {
		t.Error("CloudEnabled() = true without FIREBASE_PROJECT_ID")
	}
	if cfg.LocalStore.Path == "" {
		t.Error("LocalStore.Path is empty")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CURRENCY", "USD")
	t.Setenv("DISPATCH_DELAY", "2s")
	t.Setenv("FIREBASE_PROJECT_ID", "libreta-test")
	t.Setenv("LIBRETA_DB_PATH", "/tmp/libreta-test.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", cfg.Currency)
	}
	if cfg.Dispatch.Delay != 2*time.Second {
		t.Errorf("Dispatch.Delay = %v, want 2s", cfg.Dispatch.Delay)
	}
	if !cfg.CloudEnabled() {
		t.Error("CloudEnabled() = false with FIREBASE_PROJECT_ID set")
	}
	if cfg.LocalStore.Path != "/tmp/libreta-test.db" {
		t.Errorf("LocalStore.Path = %q", cfg.LocalStore.Path)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Bad delay", "DISPATCH_DELAY", "soon"},
		{"Bad workers", "DISPATCH_WORKERS", "many"},
		{"Zero workers", "DISPATCH_WORKERS", "0"},
		{"Bad queue size", "DISPATCH_QUEUE_SIZE", "big"},
		{"Bad timeout", "WHATSAPP_TIMEOUT", "eventually"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error with %s=%q", tt.key, tt.value)
			}
		})
	}
}
