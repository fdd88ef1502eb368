package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LLM_PROVIDER", "LLM_HOST", "LLM_TIMEOUT",
		"CACHE_PROVIDER", "STORE_PROVIDER", "QUEUE_PROVIDER",
		"INPUT_PATH", "OUTPUT_DIR", "QUESTION_COUNT",
	} {
		// Setenv registers the restore; Unsetenv makes the key absent.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LLMProvider", cfg.LLMProvider, "kobold"},
		{"LLMHost", cfg.LLMHost, "localhost:5000"},
		{"LLMTimeout", cfg.LLMTimeout, time.Duration(0)},
		{"CacheProvider", cfg.CacheProvider, "none"},
		{"StoreProvider", cfg.StoreProvider, "postgres"},
		{"QueueProvider", cfg.QueueProvider, "nats"},
		{"InputPath", cfg.InputPath, "data.txt"},
		{"OutputDir", cfg.OutputDir, "."},
		{"QuestionCount", cfg.QuestionCount, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LLM_HOST", "10.0.0.5:5001")
	t.Setenv("LLM_TIMEOUT", "90s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QUESTION_COUNT", "25")

	cfg := Load()

	if cfg.LLMHost != "10.0.0.5:5001" {
		t.Errorf("expected host 10.0.0.5:5001, got %s", cfg.LLMHost)
	}
	if cfg.LLMTimeout != 90*time.Second {
		t.Errorf("expected timeout 90s, got %v", cfg.LLMTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.QuestionCount != 25 {
		t.Errorf("expected 25 questions, got %d", cfg.QuestionCount)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("CACHE_PROVIDER", "redis")

	cfg := Load()

	if cfg.LLMProvider != "openai" {
		t.Errorf("expected LLM provider 'openai', got %s", cfg.LLMProvider)
	}
	if cfg.CacheProvider != "redis" {
		t.Errorf("expected cache provider 'redis', got %s", cfg.CacheProvider)
	}
}
