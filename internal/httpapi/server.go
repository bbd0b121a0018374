// Package httpapi exposes the gateway's HTTP surface: stateless and
// structured LLM completion, session management, guard/NLP introspection,
// the twenty-questions and turtle-soup task pipelines, usage reporting,
// and health probes.
package httpapi

import (
	"context"
	"net/http"

	"llmgateway/internal/config"
	"llmgateway/internal/guard"
	"llmgateway/internal/health"
	"llmgateway/internal/llmgw"
	"llmgateway/internal/pipeline"
	"llmgateway/internal/session"
	"llmgateway/internal/usage"
)

// GuardEvaluator is the narrow surface the guard/NLP handlers need.
type GuardEvaluator interface {
	Evaluate(text string) guard.Evaluation
	IsMalicious(text string) bool
}

// LLMClient is the narrow surface the /api/llm/* handlers need.
type LLMClient interface {
	Chat(ctx context.Context, task, model string, messages []llmgw.Message) (string, error)
	ChatStructured(ctx context.Context, task, model string, messages []llmgw.Message, schema map[string]any, out any) error
	ChatWithUsage(ctx context.Context, task, model string, messages []llmgw.Message) (llmgw.ChatResult, error)
	Stream(ctx context.Context, task, model string, messages []llmgw.Message) (<-chan string, <-chan error)
	StreamEvents(ctx context.Context, task, model string, messages []llmgw.Message, tools []llmgw.ToolSchema) <-chan llmgw.StreamEvent
}

// SessionStore is the narrow surface the /api/sessions handlers need.
type SessionStore interface {
	CreateSession(ctx context.Context, id, model, systemPrompt string) (session.Record, error)
	GetSession(ctx context.Context, id string) (*session.Record, error)
	EndSession(ctx context.Context, id string) (bool, error)
	AddMessages(ctx context.Context, id string, messages []llmgw.Message) error
	GetHistory(ctx context.Context, id string) ([]llmgw.Message, error)
}

// Deps wires every backend the HTTP surface calls into.
type Deps struct {
	Config     config.Config
	Guard      GuardEvaluator
	LLM        LLMClient
	Sessions   SessionStore
	TwentyQ    *pipeline.TwentyQService
	TurtleSoup *pipeline.TurtleSoupService
	Usage      *usage.Recorder
	Health     *health.Monitor
}

// Server exposes the gateway's HTTP API.
type Server struct {
	deps Deps
	mux  *http.ServeMux
}

// NewServer builds the gateway's HTTP API server and registers its routes.
// The request-id and access-log middleware are applied by Handler.
func NewServer(deps Deps) *Server {
	s := &Server{deps: deps, mux: http.NewServeMux()}
	s.registerRoutes()
	return s
}

// Handler returns the fully wrapped http.Handler to pass to http.Server.
func (s *Server) Handler() http.Handler {
	return withRequestID(withAccessLog(s.mux))
}

// ServeHTTP satisfies http.Handler directly, for tests that exercise the
// server without the outer middleware chain.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/llm/chat", s.handleChat)
	s.mux.HandleFunc("POST /api/llm/stream", s.handleStream)
	s.mux.HandleFunc("POST /api/llm/stream-events", s.handleStreamEvents)
	s.mux.HandleFunc("POST /api/llm/chat-with-usage", s.handleChatWithUsage)
	s.mux.HandleFunc("POST /api/llm/structured", s.handleStructured)
	s.mux.HandleFunc("GET /api/llm/usage", s.handleUsageRange)
	s.mux.HandleFunc("GET /api/llm/usage/total", s.handleUsageTotal)
	s.mux.HandleFunc("GET /api/llm/metrics", s.handleLLMMetrics)

	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.handleEndSession)
	s.mux.HandleFunc("POST /api/sessions/{id}/messages", s.handleAddMessages)

	s.mux.HandleFunc("POST /api/guard/evaluations", s.handleGuardEvaluation)
	s.mux.HandleFunc("POST /api/guard/checks", s.handleGuardCheck)

	s.mux.HandleFunc("POST /api/nlp/analyses", s.handleNLPAnalysis)
	s.mux.HandleFunc("POST /api/nlp/anomaly-scores", s.handleNLPAnomalyScore)
	s.mux.HandleFunc("POST /api/nlp/heuristics", s.handleNLPHeuristics)

	s.mux.HandleFunc("POST /api/twentyq/hints", s.handleTwentyQHints)
	s.mux.HandleFunc("POST /api/twentyq/answer", s.handleTwentyQAnswer)
	s.mux.HandleFunc("POST /api/twentyq/verify", s.handleTwentyQVerify)
	s.mux.HandleFunc("POST /api/twentyq/normalize", s.handleTwentyQNormalize)
	s.mux.HandleFunc("POST /api/twentyq/synonym", s.handleTwentyQSynonym)

	s.mux.HandleFunc("POST /api/turtle-soup/answer", s.handleTurtleSoupAnswer)
	s.mux.HandleFunc("POST /api/turtle-soup/hint", s.handleTurtleSoupHint)
	s.mux.HandleFunc("POST /api/turtle-soup/validate", s.handleTurtleSoupValidate)
	s.mux.HandleFunc("POST /api/turtle-soup/reveal", s.handleTurtleSoupReveal)
	s.mux.HandleFunc("POST /api/turtle-soup/generate", s.handleTurtleSoupGenerate)
	s.mux.HandleFunc("POST /api/turtle-soup/rewrite", s.handleTurtleSoupRewrite)

	s.mux.HandleFunc("GET /api/usage/daily", s.handleUsageDaily)
	s.mux.HandleFunc("GET /api/usage/recent", s.handleUsageRecent)
	s.mux.HandleFunc("GET /api/usage/total", s.handleUsageTotal)

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /health/ready", s.handleHealthReady)
	s.mux.HandleFunc("GET /health/live", s.handleHealthLive)
	s.mux.HandleFunc("GET /health/models", s.handleHealthModels)
}
