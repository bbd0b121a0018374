package httpapi

import (
	"encoding/json"
	"net/http"

	"llmgateway/internal/apierrors"
	"llmgateway/internal/pipeline"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "malformed request body"), apierrors.RequestIDFrom(r.Context()))
		return false
	}
	return true
}

type twentyQHintsRequest struct {
	Target   string `json:"target"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func (s *Server) handleTwentyQHints(w http.ResponseWriter, r *http.Request) {
	var req twentyQHintsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.deps.TwentyQ.Hints(r.Context(), pipeline.HintsRequest{Target: req.Target, Category: req.Category, Count: req.Count})
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, resp)
}

type twentyQAnswerRequest struct {
	Target    string `json:"target"`
	Category  string `json:"category"`
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
	ChatID    string `json:"chat_id"`
}

func (s *Server) handleTwentyQAnswer(w http.ResponseWriter, r *http.Request) {
	var req twentyQAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.deps.TwentyQ.Answer(r.Context(), pipeline.AnswerRequest{
		Target: req.Target, Category: req.Category, Question: req.Question,
		SessionID: req.SessionID, ChatID: req.ChatID,
	})
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, resp)
}

type twentyQVerifyRequest struct {
	Target    string `json:"target"`
	Guess     string `json:"guess"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleTwentyQVerify(w http.ResponseWriter, r *http.Request) {
	var req twentyQVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.deps.TwentyQ.Verify(r.Context(), pipeline.VerifyRequest{Target: req.Target, Guess: req.Guess, SessionID: req.SessionID})
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, resp)
}

type twentyQNormalizeRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleTwentyQNormalize(w http.ResponseWriter, r *http.Request) {
	var req twentyQNormalizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	normalized, err := s.deps.TwentyQ.Normalize(r.Context(), req.Question)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"normalized": normalized})
}

type twentyQSynonymRequest struct {
	Target string `json:"target"`
	Guess  string `json:"guess"`
}

func (s *Server) handleTwentyQSynonym(w http.ResponseWriter, r *http.Request) {
	var req twentyQSynonymRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.deps.TwentyQ.Synonym(r.Context(), pipeline.SynonymRequest{Target: req.Target, Guess: req.Guess})
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, resp)
}
