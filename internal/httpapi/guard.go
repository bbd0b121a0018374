package httpapi

import (
	"encoding/json"
	"net/http"

	"llmgateway/internal/apierrors"
)

type guardTextRequest struct {
	Text string `json:"text"`
}

func decodeGuardTextRequest(w http.ResponseWriter, r *http.Request) (guardTextRequest, bool) {
	var req guardTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "malformed request body"), apierrors.RequestIDFrom(r.Context()))
		return req, false
	}
	return req, true
}

// handleGuardEvaluation returns the full evaluation: score, hits, and the
// effective threshold used.
func (s *Server) handleGuardEvaluation(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGuardTextRequest(w, r)
	if !ok {
		return
	}
	eval := s.deps.Guard.Evaluate(req.Text)
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{
		"score":     eval.Score,
		"hits":      eval.Hits,
		"threshold": eval.Threshold,
		"malicious": eval.Malicious(),
	})
}

// handleGuardCheck returns only the boolean verdict, for callers that don't
// need the scoring detail.
func (s *Server) handleGuardCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGuardTextRequest(w, r)
	if !ok {
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{
		"malicious": s.deps.Guard.IsMalicious(req.Text),
	})
}
