// Command gatewayd runs the LLM gateway HTTP server: it wires the
// injection guard, session manager, Gemini client, task pipelines, usage
// recorder, and bot health monitor behind internal/httpapi's routes.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"llmgateway/internal/config"
	"llmgateway/internal/guard"
	"llmgateway/internal/health"
	"llmgateway/internal/httpapi"
	"llmgateway/internal/llmgw"
	"llmgateway/internal/observability"
	"llmgateway/internal/pipeline"
	"llmgateway/internal/prompts"
	"llmgateway/internal/session"
	"llmgateway/internal/usage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("gatewayd")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	observability.InitLogger(cfg.Logging.LogDir, cfg.Logging.Level)

	ctx := context.Background()
	shutdown, err := observability.InitOTel(ctx, cfg.Obs)
	if err != nil {
		log.Warn().Err(err).Msg("otel init failed, continuing without observability")
		shutdown = nil
	}
	if shutdown != nil {
		defer func() { _ = shutdown(context.Background()) }()
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	recorder := usage.NewRecorder(pool)
	if err := recorder.InitSchema(ctx); err != nil {
		return fmt.Errorf("init usage schema: %w", err)
	}

	g, err := buildGuard(cfg.Guard)
	if err != nil {
		return fmt.Errorf("build guard: %w", err)
	}

	store, err := buildCheckpointStore(cfg.Redis, cfg.Session)
	if err != nil {
		return fmt.Errorf("build checkpoint store: %w", err)
	}
	sessions := session.NewManager(store, cfg.Session.MaxSessions, cfg.Session.TTLMinutes)

	httpClient := observability.WithHeaders(observability.NewHTTPClient(nil), map[string]string{
		"User-Agent": fmt.Sprintf("%s/%s", cfg.Obs.ServiceName, cfg.Obs.ServiceVersion),
	})
	llm := llmgw.New(cfg, httpClient)

	p := pipeline.New(g, sessions, llm, cfg.Session.HistoryMaxPairs)

	twentyQReg, err := prompts.LoadDirectory(cfg.PromptsDir + "/twentyq")
	if err != nil {
		return fmt.Errorf("load twentyq prompts: %w", err)
	}
	turtleSoupReg, err := prompts.LoadDirectory(cfg.PromptsDir + "/turtlesoup")
	if err != nil {
		return fmt.Errorf("load turtlesoup prompts: %w", err)
	}

	monitor := health.New(cfg.Health)
	monitor.Start(ctx)
	defer monitor.Stop()

	srv := httpapi.NewServer(httpapi.Deps{
		Config:     cfg,
		Guard:      g,
		LLM:        llm,
		Sessions:   sessions,
		TwentyQ:    pipeline.NewTwentyQService(p, twentyQReg),
		TurtleSoup: pipeline.NewTurtleSoupService(p, turtleSoupReg),
		Usage:      recorder,
		Health:     monitor,
	})

	addr := net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port))
	log.Info().Str("addr", addr).Msg("gatewayd listening")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func buildGuard(cfg config.GuardConfig) (*guard.Guard, error) {
	packs, err := guard.LoadDirectory(cfg.RulepacksDir)
	if err != nil {
		return nil, err
	}
	compiled := make([]guard.CompiledPack, 0, len(packs))
	for _, pack := range packs {
		compiled = append(compiled, guard.Compile(pack))
	}
	return guard.New(cfg, compiled, nil), nil
}

// buildCheckpointStore prefers Redis when enabled, falling back to the
// in-process memory store otherwise — mirroring the original's
// optional-Redis-backend session configuration.
func buildCheckpointStore(cfg config.RedisConfig, sessionCfg config.SessionConfig) (session.CheckpointStore, error) {
	if !cfg.Enabled {
		return session.NewMemoryStore(), nil
	}

	addr := cfg.URL
	if u, err := url.Parse(cfg.URL); err == nil && u.Host != "" {
		addr = u.Host
	}
	ttl := time.Duration(sessionCfg.TTLMinutes) * time.Minute
	store, err := session.NewRedisStore(addr, ttl)
	if err != nil {
		log.Warn().Err(err).Msg("redis checkpoint store unavailable, falling back to memory store")
		return session.NewMemoryStore(), nil
	}
	return store, nil
}
