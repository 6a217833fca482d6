package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/healthhack/healthmate/internal/models"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResult struct {
	Reply string `json:"reply"`
}

// chatHandler serves POST /chat through the configured assistant responder.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.chatHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.Message == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Message is required"))
		return
	}

	reply, err := s.responder.Respond(r.Context(), req.Message)
	if err != nil {
		slog.Error("Server.chatHandler: responder failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to generate reply"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(chatResult{Reply: reply}))
}
