// Package config loads the gateway's environment-driven configuration.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ThinkingConfig holds per-task thinking level/budget overrides for the
// Gemini client, mirroring GEMINI_THINKING_LEVEL[_TASK] / _BUDGET[_TASK].
type ThinkingConfig struct {
	LevelDefault string
	LevelHints   string
	LevelAnswer  string
	LevelVerify  string

	BudgetDefault int // 0 means "not configured"
	BudgetHints   int
	BudgetAnswer  int
	BudgetVerify  int
}

// Level returns the configured thinking level for task, falling back to the default.
func (t ThinkingConfig) Level(task string) string {
	switch task {
	case "hints":
		return firstNonEmpty(t.LevelHints, t.LevelDefault)
	case "answer":
		return firstNonEmpty(t.LevelAnswer, t.LevelDefault)
	case "verify":
		return firstNonEmpty(t.LevelVerify, t.LevelDefault)
	default:
		return t.LevelDefault
	}
}

// Budget returns the configured thinking budget for task, falling back to the default.
// Zero means "omit budget".
func (t ThinkingConfig) Budget(task string) int {
	switch task {
	case "hints":
		if t.BudgetHints > 0 {
			return t.BudgetHints
		}
	case "answer":
		if t.BudgetAnswer > 0 {
			return t.BudgetAnswer
		}
	case "verify":
		if t.BudgetVerify > 0 {
			return t.BudgetVerify
		}
	}
	return t.BudgetDefault
}

// GeminiConfig holds LLM client settings.
type GeminiConfig struct {
	APIKeys          []string
	DefaultModel     string
	HintsModel       string
	AnswerModel      string
	VerifyModel      string
	Temperature      float64
	MaxOutputTokens  int
	Thinking         ThinkingConfig
	MaxRetries       int
	TimeoutSeconds   int
	ModelCacheSize   int
	FailoverAttempts int
}

// Model returns the task-specific model override, falling back to the default model.
func (g GeminiConfig) Model(task string) string {
	switch task {
	case "hints":
		return firstNonEmpty(g.HintsModel, g.DefaultModel)
	case "answer":
		return firstNonEmpty(g.AnswerModel, g.DefaultModel)
	case "verify":
		return firstNonEmpty(g.VerifyModel, g.DefaultModel)
	default:
		return g.DefaultModel
	}
}

// SessionConfig holds session manager settings.
type SessionConfig struct {
	MaxSessions     int
	TTLMinutes      int
	HistoryMaxPairs int
}

// RedisConfig holds checkpoint-store settings.
type RedisConfig struct {
	URL     string
	Enabled bool
}

// GuardConfig holds injection-guard settings.
type GuardConfig struct {
	Enabled          bool
	Threshold        float64
	RulepacksDir     string
	CacheMaxSize     int
	CacheTTLSeconds  int
	AnomalyThreshold float64
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string
	LogDir string
	JSON   bool
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
}

// DatabaseConfig holds relational-store settings.
type DatabaseConfig struct {
	Host        string
	Port        int
	Name        string
	User        string
	Password    string
	MinPoolSize int
	MaxPoolSize int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", d.User, d.Password, d.Host, d.Port, d.Name)
}

// HealthConfig holds health-monitor settings.
type HealthConfig struct {
	Enabled             bool
	URLs                []string
	IntervalSeconds     int
	MaxFailures         int
	TimeoutSeconds      float64
	StartupGraceSeconds int
	RestartCmd          []string
	RestartContainers   []string
	DockerSocket        string
}

// ObsConfig holds tracing/metrics settings.
type ObsConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLP           string
}

// Config is the immutable configuration tree for the gateway.
type Config struct {
	Gemini     GeminiConfig
	Session    SessionConfig
	Redis      RedisConfig
	Guard      GuardConfig
	Logging    LoggingConfig
	HTTP       HTTPConfig
	Database   DatabaseConfig
	Health     HealthConfig
	Obs        ObsConfig
	PromptsDir string
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
