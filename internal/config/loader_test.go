package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "hello")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "hello"},
		{"${TEST_VAR:default}", "hello"},
		{"${UNSET_VAR:fallback}", "fallback"},
		{"${UNSET_VAR}", ""},
		{"no vars here", "no vars here"},
		{"prefix-${TEST_VAR}-suffix", "prefix-hello-suffix"},
	}

	for _, tt := range tests {
		got := expandEnvVars(tt.input)
		if got != tt.expected {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "supaguardd.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9999
supabase:
  url: "https://proj.supabase.co"
  anon_key: "anon-key"
upstream:
  url: "http://app:3000"
  mode: optional
`)

	l := NewLoader(path, slog.Default())
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := l.Config()
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host default not applied: %q", cfg.Server.Host)
	}
	if cfg.Supabase.URL != "https://proj.supabase.co" {
		t.Errorf("supabase url = %q", cfg.Supabase.URL)
	}
	if cfg.Upstream.Mode != "optional" {
		t.Errorf("mode = %q", cfg.Upstream.Mode)
	}
	if !cfg.Upstream.IdentityHeaders {
		t.Error("identity_headers default should be true")
	}
}

func TestLoader_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_SUPA_URL", "https://env.supabase.co")

	path := writeConfig(t, `
supabase:
  url: "${TEST_SUPA_URL}"
  anon_key: "${TEST_SUPA_KEY:fallback-key}"
upstream:
  url: "http://app:3000"
`)

	l := NewLoader(path, slog.Default())
	if err := l.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := l.Config()
	if cfg.Supabase.URL != "https://env.supabase.co" {
		t.Errorf("url = %q", cfg.Supabase.URL)
	}
	if cfg.Supabase.AnonKey != "fallback-key" {
		t.Errorf("anon_key = %q", cfg.Supabase.AnonKey)
	}
}

func TestLoader_InvalidMode(t *testing.T) {
	path := writeConfig(t, `
upstream:
  url: "http://app:3000"
  mode: lenient
`)

	if err := NewLoader(path, slog.Default()).Load(); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestLoader_MissingUpstream(t *testing.T) {
	path := writeConfig(t, `
supabase:
  url: "https://proj.supabase.co"
`)

	if err := NewLoader(path, slog.Default()).Load(); err == nil {
		t.Error("expected error for missing upstream url")
	}
}

func TestLoader_MissingFile(t *testing.T) {
	if err := NewLoader("/does/not/exist.yaml", slog.Default()).Load(); err == nil {
		t.Error("expected error for missing file")
	}
}
