package server

import (
	"encoding/json"
	"net/http"
	"time"
)

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Request body is required")
		return
	}

	if msg := validateMessageRequest(&req); msg != "" {
		s.writeError(w, http.StatusBadRequest, msg)
		return
	}

	resp, err := s.agent.ProcessMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.logger.Error("agent message error", "session_id", req.SessionID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"response":   resp.Response,
		"session_id": resp.SessionID,
		"timestamp":  resp.Timestamp.Format(time.RFC3339),
	})
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")

	s.writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"history":    s.agent.History(sessionID),
	})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	s.agent.ClearSession(sessionID)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Session cleared",
		"session_id": sessionID,
	})
}

func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"plugins": s.agent.Plugins(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
