package httpapi

import (
	"net/http"

	"llmgateway/internal/apierrors"
)

// componentStatus mirrors the "ok | degraded" component shape used across
// every health endpoint, each carrying its own detail payload.
type componentStatus struct {
	Status string `json:"status"`
	Detail any    `json:"detail"`
}

func (s *Server) collectHealth(deep bool) map[string]any {
	components := map[string]componentStatus{
		"app":    s.appStatus(),
		"guard":  s.guardStatus(),
		"gemini": s.geminiStatus(),
	}
	if s.deps.Health != nil {
		components["bot_monitor"] = s.monitorStatus(deep)
	}

	overall := "ok"
	for _, c := range components {
		if c.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return map[string]any{
		"status":     overall,
		"components": components,
	}
}

func (s *Server) appStatus() componentStatus {
	return componentStatus{Status: "ok", Detail: map[string]any{"deep_checked": false}}
}

func (s *Server) guardStatus() componentStatus {
	return componentStatus{
		Status: "ok",
		Detail: map[string]any{
			"enabled":   s.deps.Config.Guard.Enabled,
			"threshold": s.deps.Config.Guard.Threshold,
		},
	}
}

func (s *Server) geminiStatus() componentStatus {
	cfg := s.deps.Config.Gemini
	status := "ok"
	if len(cfg.APIKeys) == 0 {
		status = "degraded"
	}
	return componentStatus{
		Status: status,
		Detail: map[string]any{
			"api_key_present": len(cfg.APIKeys) > 0,
			"default_model":   cfg.DefaultModel,
			"timeout_seconds": cfg.TimeoutSeconds,
			"max_retries":     cfg.MaxRetries,
		},
	}
}

// monitorStatus reports the bot health monitor's target snapshot. The
// liveness probe reports only whether the monitor is enabled; the deep
// (readiness) probe also reports each target's live failure count.
func (s *Server) monitorStatus(deep bool) componentStatus {
	detail := map[string]any{"enabled": s.deps.Health.Enabled(), "deep_checked": deep}
	status := "ok"
	if !deep {
		return componentStatus{Status: status, Detail: detail}
	}

	targets := s.deps.Health.Status()
	detail["targets"] = targets
	for _, t := range targets {
		if !t.Healthy {
			status = "degraded"
			break
		}
	}
	return componentStatus{Status: status, Detail: detail}
}

// handleHealth is the general-purpose health endpoint; it performs the same
// deep checks as the readiness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apierrors.RespondJSON(w, http.StatusOK, s.collectHealth(true))
}

// handleHealthReady performs a deep dependency check: it inspects live bot
// health monitor targets in addition to static configuration.
func (s *Server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	apierrors.RespondJSON(w, http.StatusOK, s.collectHealth(true))
}

// handleHealthLive performs only shallow, in-process checks so the liveness
// probe never blocks on an external dependency.
func (s *Server) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	apierrors.RespondJSON(w, http.StatusOK, s.collectHealth(false))
}

// handleHealthModels surfaces the configured Gemini task/model mapping, for
// operator debugging of which model each task routes to.
func (s *Server) handleHealthModels(w http.ResponseWriter, r *http.Request) {
	cfg := s.deps.Config.Gemini
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{
		"model_default":   cfg.DefaultModel,
		"model_hints":     cfg.Model("hints"),
		"model_answer":    cfg.Model("answer"),
		"model_verify":    cfg.Model("verify"),
		"temperature":     cfg.Temperature,
		"timeout_seconds": cfg.TimeoutSeconds,
		"max_retries":     cfg.MaxRetries,
		"http2_enabled":   s.deps.Config.HTTP.HTTP2Enabled,
	})
}
