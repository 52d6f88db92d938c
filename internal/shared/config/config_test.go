package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "CORS_ALLOW_ORIGINS", "LLM_MODEL", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("Env = %q, want dev", cfg.Env)
	}
	if cfg.LLMModel != "gemini-2.0-flash-001" {
		t.Fatalf("LLMModel = %q", cfg.LLMModel)
	}
	if !reflect.DeepEqual(cfg.CORSAllowOrigin, []string{"http://localhost:3000"}) {
		t.Fatalf("CORSAllowOrigin = %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "PROD")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("VAPI_WORKFLOW_ID", "wf-1")

	cfg := Load()

	if cfg.Env != "production" {
		t.Fatalf("Env = %q, want production", cfg.Env)
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q, want 9090", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.CORSAllowOrigin, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("CORSAllowOrigin = %v", cfg.CORSAllowOrigin)
	}
	if cfg.VapiWorkflowID != "wf-1" {
		t.Fatalf("VapiWorkflowID = %q", cfg.VapiWorkflowID)
	}
}

func TestNormalizeEnv(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"prod", "production"},
		{"Production", "production"},
		{"staging", "staging"},
		{"local", "local"},
		{"dev", "dev"},
		{"weird", "dev"},
		{"", "dev"},
	}
	for _, tc := range tests {
		if got := normalizeEnv(tc.in); got != tc.want {
			t.Fatalf("normalizeEnv(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
