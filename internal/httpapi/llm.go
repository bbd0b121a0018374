package httpapi

import (
	"encoding/json"
	"net/http"

	"llmgateway/internal/apierrors"
	"llmgateway/internal/llmgw"
)

type chatMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toMessages(dtos []chatMessageDTO) []llmgw.Message {
	messages := make([]llmgw.Message, len(dtos))
	for i, d := range dtos {
		messages[i] = llmgw.Message{Role: d.Role, Content: d.Content}
	}
	return messages
}

type chatRequest struct {
	Task     string           `json:"task"`
	Model    string           `json:"model"`
	Messages []chatMessageDTO `json:"messages"`
}

func decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "malformed request body"), apierrors.RequestIDFrom(r.Context()))
		return req, false
	}
	if len(req.Messages) == 0 {
		apierrors.RespondError(w, apierrors.MissingField("messages"), apierrors.RequestIDFrom(r.Context()))
		return req, false
	}
	return req, true
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	text, err := s.deps.LLM.Chat(r.Context(), req.Task, req.Model, toMessages(req.Messages))
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"text": text})
}

func (s *Server) handleChatWithUsage(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}
	result, err := s.deps.LLM.ChatWithUsage(r.Context(), req.Task, req.Model, toMessages(req.Messages))
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, result)
}

type structuredRequest struct {
	chatRequest
	Schema map[string]any `json:"schema"`
}

func (s *Server) handleStructured(w http.ResponseWriter, r *http.Request) {
	var req structuredRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.RespondError(w, apierrors.New(apierrors.CodeInvalidInput, "malformed request body"), apierrors.RequestIDFrom(r.Context()))
		return
	}
	if len(req.Messages) == 0 {
		apierrors.RespondError(w, apierrors.MissingField("messages"), apierrors.RequestIDFrom(r.Context()))
		return
	}
	if req.Schema == nil {
		apierrors.RespondError(w, apierrors.MissingField("schema"), apierrors.RequestIDFrom(r.Context()))
		return
	}

	var out map[string]any
	if err := s.deps.LLM.ChatStructured(r.Context(), req.Task, req.Model, toMessages(req.Messages), req.Schema, &out); err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, out)
}

// handleStream streams plain-text chunks back as they arrive, flushing
// after each write so the caller sees incremental output.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	chunks, errs := s.deps.LLM.Stream(r.Context(), req.Task, req.Model, toMessages(req.Messages))
	for {
		select {
		case chunk, open := <-chunks:
			if !open {
				return
			}
			_, _ = w.Write([]byte(chunk))
			if canFlush {
				flusher.Flush()
			}
		case err, open := <-errs:
			if !open {
				continue
			}
			if err != nil {
				_, _ = w.Write([]byte("\n[error] " + err.Error()))
				if canFlush {
					flusher.Flush()
				}
			}
			return
		}
	}
}

type streamEventDTO struct {
	Type     llmgw.StreamEventType `json:"type"`
	Content  string                `json:"content,omitempty"`
	Usage    *llmgw.Usage          `json:"usage,omitempty"`
	Error    string                `json:"error,omitempty"`
	Metadata map[string]any        `json:"metadata,omitempty"`
}

// handleStreamEvents emits newline-delimited JSON stream events, one line
// per event, terminating in exactly one "done" or "error" line.
func (s *Server) handleStreamEvents(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeChatRequest(w, r)
	if !ok {
		return
	}

	flusher, canFlush := w.(http.Flusher)
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)

	events := s.deps.LLM.StreamEvents(r.Context(), req.Task, req.Model, toMessages(req.Messages), nil)
	for ev := range events {
		dto := streamEventDTO{Type: ev.Type, Content: ev.Content, Usage: ev.Usage, Metadata: ev.Metadata}
		if ev.Err != nil {
			dto.Error = ev.Err.Error()
		}
		_ = enc.Encode(dto)
		if canFlush {
			flusher.Flush()
		}
	}
}
