package httpapi

import (
	"net/http"

	"llmgateway/internal/apierrors"
	"llmgateway/internal/pipeline"
)

type turtleSoupAnswerRequest struct {
	Scenario   string `json:"scenario"`
	Solution   string `json:"solution"`
	Category   string `json:"category"`
	Difficulty *int   `json:"difficulty"`
	Question   string `json:"question"`
	SessionID  string `json:"session_id"`
	ChatID     string `json:"chat_id"`
}

func (s *Server) handleTurtleSoupAnswer(w http.ResponseWriter, r *http.Request) {
	var req turtleSoupAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.deps.TurtleSoup.Answer(r.Context(), pipeline.TurtleAnswerRequest{
		Scenario: req.Scenario, Solution: req.Solution, Category: req.Category, Difficulty: req.Difficulty,
		Question: req.Question, SessionID: req.SessionID, ChatID: req.ChatID,
	})
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, resp)
}

type turtleSoupHintRequest struct {
	Scenario   string `json:"scenario"`
	Solution   string `json:"solution"`
	Category   string `json:"category"`
	Difficulty *int   `json:"difficulty"`
	Level      int    `json:"level"`
}

func (s *Server) handleTurtleSoupHint(w http.ResponseWriter, r *http.Request) {
	var req turtleSoupHintRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	hint, err := s.deps.TurtleSoup.Hint(r.Context(), pipeline.HintRequest{
		Scenario: req.Scenario, Solution: req.Solution, Category: req.Category,
		Difficulty: req.Difficulty, Level: req.Level,
	})
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"hint": hint})
}

type turtleSoupValidateRequest struct {
	Solution     string `json:"solution"`
	PlayerAnswer string `json:"player_answer"`
	SessionID    string `json:"session_id"`
}

func (s *Server) handleTurtleSoupValidate(w http.ResponseWriter, r *http.Request) {
	var req turtleSoupValidateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.deps.TurtleSoup.Validate(r.Context(), pipeline.ValidateRequest{
		Solution: req.Solution, PlayerAnswer: req.PlayerAnswer, SessionID: req.SessionID,
	})
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, resp)
}

type turtleSoupRevealRequest struct {
	Scenario   string `json:"scenario"`
	Solution   string `json:"solution"`
	Category   string `json:"category"`
	Difficulty *int   `json:"difficulty"`
}

func (s *Server) handleTurtleSoupReveal(w http.ResponseWriter, r *http.Request) {
	var req turtleSoupRevealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text, err := s.deps.TurtleSoup.Reveal(r.Context(), req.Scenario, req.Solution, req.Category, req.Difficulty)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, map[string]any{"reveal": text})
}

type turtleSoupGenerateRequest struct {
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
	Theme      string `json:"theme"`
	Examples   string `json:"examples"`
}

func (s *Server) handleTurtleSoupGenerate(w http.ResponseWriter, r *http.Request) {
	var req turtleSoupGenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	puzzle, err := s.deps.TurtleSoup.Generate(r.Context(), req.Category, req.Difficulty, req.Theme, req.Examples)
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, puzzle)
}

type turtleSoupRewriteRequest struct {
	Title      string `json:"title"`
	Scenario   string `json:"scenario"`
	Solution   string `json:"solution"`
	Difficulty int    `json:"difficulty"`
}

func (s *Server) handleTurtleSoupRewrite(w http.ResponseWriter, r *http.Request) {
	var req turtleSoupRewriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := s.deps.TurtleSoup.Rewrite(r.Context(), pipeline.RewriteRequest{
		Title: req.Title, Scenario: req.Scenario, Solution: req.Solution, Difficulty: req.Difficulty,
	})
	if err != nil {
		apierrors.RespondError(w, err, apierrors.RequestIDFrom(r.Context()))
		return
	}
	apierrors.RespondJSON(w, http.StatusOK, result)
}
