package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/soyeahso/advisor/internal/advisor"
	"github.com/soyeahso/advisor/internal/provider"
)

// genericErrorMessage is the user-facing text for upstream failures; the
// provider's own message travels in the details field.
const genericErrorMessage = "An error occurred processing your request"

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

// ChatResponse is the successful POST /api/chat reply.
type ChatResponse struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId"`
}

// ResetRequest is the POST /api/reset body.
type ResetRequest struct {
	ConversationID string `json:"conversationId"`
}

// ErrorResponse carries a client-facing error, optionally with upstream
// details attached.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status        string          `json:"status"`
	Timestamp     string          `json:"timestamp"`
	Provider      string          `json:"provider"`
	Configuration map[string]bool `json:"configuration"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.runner.Chat(r.Context(), req.ConversationID, req.Message)
	if err != nil {
		s.writeChatError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Message:        result.Reply,
		ConversationID: result.Token,
	})
}

// writeChatError maps runner errors onto HTTP statuses. This is the only
// place that mapping exists.
func (s *Server) writeChatError(w http.ResponseWriter, err error) {
	if errors.Is(err, advisor.ErrEmptyMessage) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Message is required"})
		return
	}

	var ue *provider.UpstreamError
	if errors.As(err, &ue) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   genericErrorMessage,
			Details: ue.Message,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   genericErrorMessage,
		Details: err.Error(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	// A malformed body still resets nothing and still succeeds.
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.runner.Reset(req.ConversationID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Provider:      s.info.Provider,
		Configuration: s.info.Configuration,
	})
}

// handleNotFound returns a 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
