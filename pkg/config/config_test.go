package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if !cfg.App.IsProd() {
		t.Fatal("expected IsProd to be true")
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Fatalf("unexpected API base URL: %q", cfg.API.BaseURL)
	}
	if got := cfg.API.Timeout; got != 10*time.Second {
		t.Fatalf("expected default timeout 10s, got %v", got)
	}
	if cfg.Stub.Port != "8080" {
		t.Fatalf("expected default stub port 8080, got %q", cfg.Stub.Port)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAPIBaseURL); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAPIBaseURL, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsNonHTTPBaseURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvAPIBaseURL, "ftp://api.example.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected non-http base url to be rejected")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvAPIBaseURL, "https://api.example.com")
}
