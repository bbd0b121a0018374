package config

import (
	"os"
	"testing"
)

func withEnv(t *testing.T, kv map[string]string, fn func()) {
	t.Helper()
	saved := make(map[string]string, len(kv))
	for k := range kv {
		saved[k] = os.Getenv(k)
	}
	defer func() {
		for k, v := range saved {
			if v == "" {
				_ = os.Unsetenv(k)
			} else {
				_ = os.Setenv(k, v)
			}
		}
	}()
	for k, v := range kv {
		_ = os.Setenv(k, v)
	}
	fn()
}

func clearAllConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"GOOGLE_API_KEY", "GOOGLE_API_KEYS", "GEMINI_MODEL", "GEMINI_HINTS_MODEL",
		"GEMINI_ANSWER_MODEL", "GEMINI_VERIFY_MODEL", "GEMINI_TEMPERATURE",
		"GEMINI_MAX_TOKENS", "GEMINI_MAX_RETRIES", "GEMINI_TIMEOUT",
		"GEMINI_MODEL_CACHE_SIZE", "GEMINI_FAILOVER_ATTEMPTS",
		"GEMINI_THINKING_LEVEL", "GEMINI_THINKING_LEVEL_HINTS",
		"GEMINI_THINKING_LEVEL_ANSWER", "GEMINI_THINKING_LEVEL_VERIFY",
		"GEMINI_THINKING_BUDGET", "GEMINI_THINKING_BUDGET_HINTS",
		"GEMINI_THINKING_BUDGET_ANSWER", "GEMINI_THINKING_BUDGET_VERIFY",
		"MAX_SESSIONS", "SESSION_TTL_MINUTES", "SESSION_HISTORY_MAX_PAIRS",
		"REDIS_URL", "LANGGRAPH_REDIS_ENABLED",
		"GUARD_ENABLED", "GUARD_THRESHOLD", "RULEPACKS_DIR", "GUARD_CACHE_SIZE",
		"GUARD_CACHE_TTL", "GUARD_ANOMALY_THRESHOLD",
		"LOG_LEVEL", "LOG_DIR", "LOG_JSON",
		"HTTP_HOST", "HTTP_PORT", "HTTP2_ENABLED",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_MIN_POOL", "DB_MAX_POOL",
		"OTEL_SERVICE_NAME", "SERVICE_VERSION", "ENVIRONMENT",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "PROMPTS_DIR",
		"BOT_HEALTH_ENABLED", "BOT_HEALTH_URLS", "BOT_HEALTH_URL",
		"BOT_RESTART_CMD", "BOT_RESTART_CONTAINERS", "BOT_DOCKER_SOCKET",
		"BOT_HEALTH_INTERVAL_SECONDS", "BOT_HEALTH_MAX_FAILURES",
		"BOT_HEALTH_TIMEOUT_SECONDS", "BOT_HEALTH_STARTUP_GRACE_SECONDS",
	}
	saved := make(map[string]string, len(keys))
	for _, k := range keys {
		saved[k] = os.Getenv(k)
		_ = os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range saved {
			if v == "" {
				_ = os.Unsetenv(k)
			} else {
				_ = os.Setenv(k, v)
			}
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	clearAllConfigEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.DefaultModel != "gemini-2.5-flash-preview-09-2025" {
		t.Fatalf("unexpected default model: %q", cfg.Gemini.DefaultModel)
	}
	if cfg.Guard.Threshold != 0.85 {
		t.Fatalf("expected guard threshold 0.85, got %v", cfg.Guard.Threshold)
	}
	if cfg.HTTP.Port != 40527 {
		t.Fatalf("expected default HTTP port 40527, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.Name != "twentyq" {
		t.Fatalf("expected default db name twentyq, got %q", cfg.Database.Name)
	}
	if len(cfg.Gemini.APIKeys) != 0 {
		t.Fatalf("expected no API keys by default, got %v", cfg.Gemini.APIKeys)
	}
	if !cfg.Health.Enabled {
		t.Fatalf("expected health monitor enabled by default, deriving its URL from HTTP host/port")
	}
}

func TestLoadAPIKeysSplitsOnCommaAndWhitespace(t *testing.T) {
	clearAllConfigEnv(t)
	withEnv(t, map[string]string{"GOOGLE_API_KEYS": "key-a, key-b\nkey-c"}, func() {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"key-a", "key-b", "key-c"}
		if len(cfg.Gemini.APIKeys) != len(want) {
			t.Fatalf("expected %v, got %v", want, cfg.Gemini.APIKeys)
		}
		for i, k := range want {
			if cfg.Gemini.APIKeys[i] != k {
				t.Fatalf("expected %v, got %v", want, cfg.Gemini.APIKeys)
			}
		}
	})
}

func TestLoadSingleAPIKeyFallback(t *testing.T) {
	clearAllConfigEnv(t)
	withEnv(t, map[string]string{"GOOGLE_API_KEY": "solo-key"}, func() {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Gemini.APIKeys) != 1 || cfg.Gemini.APIKeys[0] != "solo-key" {
			t.Fatalf("expected [solo-key], got %v", cfg.Gemini.APIKeys)
		}
	})
}

func TestGeminiConfigModelFallsBackToDefault(t *testing.T) {
	g := GeminiConfig{DefaultModel: "base-model", AnswerModel: "answer-model"}
	if got := g.Model("answer"); got != "answer-model" {
		t.Fatalf("expected answer-model, got %q", got)
	}
	if got := g.Model("hints"); got != "base-model" {
		t.Fatalf("expected base-model fallback, got %q", got)
	}
	if got := g.Model("unknown-task"); got != "base-model" {
		t.Fatalf("expected base-model for unknown task, got %q", got)
	}
}

func TestThinkingConfigBudgetZeroMeansOmitted(t *testing.T) {
	th := ThinkingConfig{BudgetDefault: 0, BudgetAnswer: 4096}
	if got := th.Budget("answer"); got != 4096 {
		t.Fatalf("expected 4096, got %d", got)
	}
	if got := th.Budget("hints"); got != 0 {
		t.Fatalf("expected 0 (omitted), got %d", got)
	}
}

func TestDatabaseConfigDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "n", User: "u", Password: "p"}
	want := "postgres://u:p@db:5432/n"
	if got := d.DSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHealthConfigDerivesURLFromHTTPWhenUnset(t *testing.T) {
	clearAllConfigEnv(t)
	withEnv(t, map[string]string{"HTTP_HOST": "127.0.0.1", "HTTP_PORT": "9000"}, func() {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "http://127.0.0.1:9000/health/ready"
		if len(cfg.Health.URLs) != 1 || cfg.Health.URLs[0] != want {
			t.Fatalf("expected [%s], got %v", want, cfg.Health.URLs)
		}
		if !cfg.Health.Enabled {
			t.Fatalf("expected health monitor enabled once a URL is derivable")
		}
	})
}

func TestHealthConfigDisabledByFlag(t *testing.T) {
	clearAllConfigEnv(t)
	// HTTP defaults still derive a health-check URL, so disabling requires the explicit flag.
	withEnv(t, map[string]string{"BOT_HEALTH_ENABLED": "false"}, func() {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Health.Enabled {
			t.Fatalf("expected health monitor disabled when BOT_HEALTH_ENABLED=false")
		}
	})
}
