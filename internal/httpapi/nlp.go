package httpapi

import (
	"encoding/json"
	"net/http"

	"llmgateway/internal/apierrors"
	"llmgateway/internal/korean"
)

type nlpTextRequest struct {
	Text string `json:"text"`
}

func decodeNLPTextRequest(w http.ResponseWriter, r *http.Request) (nlpTextRequest, bool) {
	var req nlpTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "malformed request body"), apierrors.RequestIDFrom(r.Context()))
		return req, false
	}
	return req, true
}

// handleNLPAnalysis returns the tokenized form, tag, position, and length
// sequence for the input text.
func (s *Server) handleNLPAnalysis(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeNLPTextRequest(w, r)
	if !ok {
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"tokens": korean.Tokenize(req.Text)})
}

func (s *Server) handleNLPAnomalyScore(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeNLPTextRequest(w, r)
	if !ok {
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"score": korean.AnomalyScore(req.Text)})
}

func (s *Server) handleNLPHeuristics(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeNLPTextRequest(w, r)
	if !ok {
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, korean.AnalyzeHeuristics(req.Text))
}
