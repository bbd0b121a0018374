package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var splitKeysPattern = regexp.MustCompile(`[,\s]+`)

// Load reads configuration from the environment, optionally overlaid by a
// .env file, applying defaults for anything unset. Mirrors the sequential
// os.Getenv + strings.TrimSpace + typed-parse-with-default idiom used
// throughout the teacher's env loader.
func Load() (Config, error) {
	_ = godotenv.Overload()

	cfg := Config{}

	cfg.Gemini = GeminiConfig{
		APIKeys:          parseAPIKeys(),
		DefaultModel:     envOr("GEMINI_MODEL", "gemini-2.5-flash-preview-09-2025"),
		HintsModel:       strings.TrimSpace(os.Getenv("GEMINI_HINTS_MODEL")),
		AnswerModel:      strings.TrimSpace(os.Getenv("GEMINI_ANSWER_MODEL")),
		VerifyModel:      strings.TrimSpace(os.Getenv("GEMINI_VERIFY_MODEL")),
		Temperature:      envFloatOr("GEMINI_TEMPERATURE", 0.7),
		MaxOutputTokens:  envIntOr("GEMINI_MAX_TOKENS", 8192),
		MaxRetries:       max1(envIntOr("GEMINI_MAX_RETRIES", 6)),
		TimeoutSeconds:   envIntOr("GEMINI_TIMEOUT", 60),
		ModelCacheSize:   envIntOr("GEMINI_MODEL_CACHE_SIZE", 20),
		FailoverAttempts: max1(envIntOr("GEMINI_FAILOVER_ATTEMPTS", 2)),
		Thinking: ThinkingConfig{
			LevelDefault:  envOr("GEMINI_THINKING_LEVEL", "low"),
			LevelHints:    envOr("GEMINI_THINKING_LEVEL_HINTS", "low"),
			LevelAnswer:   envOr("GEMINI_THINKING_LEVEL_ANSWER", "low"),
			LevelVerify:   envOr("GEMINI_THINKING_LEVEL_VERIFY", "low"),
			BudgetDefault: envIntPositiveOr0("GEMINI_THINKING_BUDGET", 0),
			BudgetHints:   envIntPositiveOr0("GEMINI_THINKING_BUDGET_HINTS", 8192),
			BudgetAnswer:  envIntPositiveOr0("GEMINI_THINKING_BUDGET_ANSWER", 4096),
			BudgetVerify:  envIntPositiveOr0("GEMINI_THINKING_BUDGET_VERIFY", 2048),
		},
	}

	cfg.Session = SessionConfig{
		MaxSessions:     envIntOr("MAX_SESSIONS", 50),
		TTLMinutes:      envIntOr("SESSION_TTL_MINUTES", 1440),
		HistoryMaxPairs: nonNegative(envIntOr("SESSION_HISTORY_MAX_PAIRS", 10)),
	}

	cfg.Redis = RedisConfig{
		URL:     envOr("REDIS_URL", "redis://localhost:6379"),
		Enabled: envBoolOr("LANGGRAPH_REDIS_ENABLED", true),
	}

	cfg.Guard = GuardConfig{
		Enabled:          envBoolOr("GUARD_ENABLED", true),
		Threshold:        envFloatOr("GUARD_THRESHOLD", 0.85),
		RulepacksDir:     envOr("RULEPACKS_DIR", "rulepacks"),
		CacheMaxSize:     envIntOr("GUARD_CACHE_SIZE", 10000),
		CacheTTLSeconds:  envIntOr("GUARD_CACHE_TTL", 3600),
		AnomalyThreshold: envFloatOr("GUARD_ANOMALY_THRESHOLD", 0.5),
	}

	cfg.Logging = LoggingConfig{
		Level:  envOr("LOG_LEVEL", "info"),
		LogDir: strings.TrimSpace(os.Getenv("LOG_DIR")),
		JSON:   envBoolOr("LOG_JSON", true),
	}

	cfg.HTTP = HTTPConfig{
		Host:         envOr("HTTP_HOST", "127.0.0.1"),
		Port:         envIntOr("HTTP_PORT", 40527),
		HTTP2Enabled: envBoolOr("HTTP2_ENABLED", true),
	}

	cfg.Database = DatabaseConfig{
		Host:        envOr("DB_HOST", "localhost"),
		Port:        envIntOr("DB_PORT", 5432),
		Name:        envOr("DB_NAME", "twentyq"),
		User:        envOr("DB_USER", "twentyq"),
		Password:    os.Getenv("DB_PASSWORD"),
		MinPoolSize: envIntOr("DB_MIN_POOL", 1),
		MaxPoolSize: envIntOr("DB_MAX_POOL", 5),
	}

	cfg.Obs = ObsConfig{
		ServiceName:    envOr("OTEL_SERVICE_NAME", "llm-gateway"),
		ServiceVersion: envOr("SERVICE_VERSION", "0.1.0"),
		Environment:    envOr("ENVIRONMENT", "development"),
		OTLP:           strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}

	cfg.PromptsDir = envOr("PROMPTS_DIR", "prompts")

	cfg.Health = loadHealthConfig(cfg.HTTP)

	return cfg, nil
}

func loadHealthConfig(http HTTPConfig) HealthConfig {
	enabledFlag := envBoolOr("BOT_HEALTH_ENABLED", true)

	var urls []string
	if raw := strings.TrimSpace(os.Getenv("BOT_HEALTH_URLS")); raw != "" {
		urls = splitNonEmpty(raw)
	} else {
		defaultURL := "http://" + http.Host + ":" + itoa(http.Port) + "/health/ready"
		if u := envOr("BOT_HEALTH_URL", defaultURL); u != "" {
			urls = []string{u}
		}
	}

	restartCmd := strings.Fields(strings.TrimSpace(os.Getenv("BOT_RESTART_CMD")))
	restartContainers := splitNonEmpty(strings.TrimSpace(os.Getenv("BOT_RESTART_CONTAINERS")))

	cfg := HealthConfig{
		URLs:                urls,
		RestartCmd:          restartCmd,
		RestartContainers:   restartContainers,
		DockerSocket:        envOr("BOT_DOCKER_SOCKET", "/var/run/docker.sock"),
		IntervalSeconds:     max1(envIntOr("BOT_HEALTH_INTERVAL_SECONDS", 60)),
		MaxFailures:         max1(envIntOr("BOT_HEALTH_MAX_FAILURES", 5)),
		TimeoutSeconds:      envFloatOr("BOT_HEALTH_TIMEOUT_SECONDS", 3),
		StartupGraceSeconds: nonNegative(envIntOr("BOT_HEALTH_STARTUP_GRACE_SECONDS", 15)),
	}
	cfg.Enabled = enabledFlag && len(cfg.URLs) > 0
	return cfg
}

func parseAPIKeys() []string {
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_API_KEYS")); raw != "" {
		return splitNonEmpty(raw)
	}
	if single := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); single != "" {
		return []string{single}
	}
	return nil
}

func splitNonEmpty(raw string) []string {
	parts := splitKeysPattern.Split(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := parseInt(v); err == nil {
			return n
		}
	}
	return def
}

// envIntPositiveOr0 mirrors the original's _get_int_or_none: a non-positive
// parsed value collapses to 0 ("not configured"), matching Python's None.
func envIntPositiveOr0(key string, def int) int {
	v := envIntOr(key, def)
	if v <= 0 {
		return 0
	}
	return v
}

func envFloatOr(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := parseFloat(v); err == nil {
			return f
		}
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
