package httpapi

import (
	"encoding/json"
	"net/http"

	"llmgateway/internal/apierrors"
)

type createSessionRequest struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "malformed request body"), apierrors.RequestIDFrom(r.Context()))
		return
	}
	if req.ID == "" {
		apierrors.RespondError(w, apierrors.MissingField("id"), apierrors.RequestIDFrom(r.Context()))
		return
	}
	record, err := s.deps.Sessions.CreateSession(r.Context(), req.ID, req.Model, req.SystemPrompt)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusCreated, record)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	record, err := s.deps.Sessions.GetSession(r.Context(), id)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	if record == nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeSessionNotFound, "session not found"), apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, record)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	removed, err := s.deps.Sessions.EndSession(r.Context(), id)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

type addMessagesRequest struct {
	Messages []chatMessageDTO `json:"messages"`
}

func (s *Server) handleAddMessages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req addMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "malformed request body"), apierrors.RequestIDFrom(r.Context()))
		return
	}
	if len(req.Messages) == 0 {
		apierrors.RespondError(w, apierrors.MissingField("messages"), apierrors.RequestIDFrom(r.Context()))
		return
	}
	if err := s.deps.Sessions.AddMessages(r.Context(), id, toMessages(req.Messages)); err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	history, err := s.deps.Sessions.GetHistory(r.Context(), id)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"history": history})
}
