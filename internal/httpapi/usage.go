package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"llmgateway/internal/apierrors"
)

const defaultUsageWindowDays = 30

func queryIntOr(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) handleUsageDaily(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	date := time.Now().UTC()
	if dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "date must be YYYY-MM-DD"), apierrors.RequestIDFrom(r.Context()))
			return
		}
		date = parsed
	}

	daily, err := s.deps.Usage.GetDaily(r.Context(), date)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"daily": daily})
}

func (s *Server) handleUsageRecent(w http.ResponseWriter, r *http.Request) {
	days := queryIntOr(r, "days", 7)
	recent, err := s.deps.Usage.GetRecent(r.Context(), days)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"recent": recent})
}

func (s *Server) handleUsageTotal(w http.ResponseWriter, r *http.Request) {
	days := queryIntOr(r, "days", defaultUsageWindowDays)
	total, err := s.deps.Usage.GetTotal(r.Context(), days)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, total)
}

func (s *Server) handleUsageRange(w http.ResponseWriter, r *http.Request) {
	startParam, endParam := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if startParam == "" || endParam == "" {
		s.handleUsageRecent(w, r)
		return
	}
	start, err := time.Parse("2006-01-02", startParam)
	if err != nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "start must be YYYY-MM-DD"), apierrors.RequestIDFrom(r.Context()))
		return
	}
	end, err := time.Parse("2006-01-02", endParam)
	if err != nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "end must be YYYY-MM-DD"), apierrors.RequestIDFrom(r.Context()))
		return
	}
	rows, err := s.deps.Usage.GetRange(r.Context(), start, end)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"usage": rows})
}

// handleLLMMetrics surfaces the trailing 30-day usage aggregate as the
// gateway's headline operational metric.
func (s *Server) handleLLMMetrics(w http.ResponseWriter, r *http.Request) {
	total, err := s.deps.Usage.GetTotal(r.Context(), defaultUsageWindowDays)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{
		"window_days":  defaultUsageWindowDays,
		"total_tokens": total.TotalTokens(),
		"usage":        total,
	})
}
