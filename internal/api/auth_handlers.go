package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/healthhack/healthmate/internal/models"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResult struct {
	Token   string          `json:"token"`
	Session *models.Session `json:"session"`
}

// signupHandler serves POST /auth/signup.
func (s *Server) signupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.signupHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Email and password are required"))
		return
	}

	session, err := s.provider.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrEmailInUse) {
			slog.Warn("Server.signupHandler: email already in use")
			writeJSONResponse(w, http.StatusConflict, models.Error(models.ErrEmailInUse.Error()))
			return
		}
		slog.Error("Server.signupHandler: signup failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to create account"))
		return
	}

	token, err := s.provider.IssueToken(session.UserID, session.Email)
	if err != nil {
		slog.Error("Server.signupHandler: failed to issue token", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to issue token"))
		return
	}
	slog.Info("Server.signupHandler: account created", "user_id", session.UserID)
	writeJSONResponse(w, http.StatusCreated, models.Success(authResult{Token: token, Session: session}))
}

// loginHandler serves POST /auth/login.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.loginHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	session, err := s.provider.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			slog.Warn("Server.loginHandler: invalid credentials")
			writeJSONResponse(w, http.StatusUnauthorized, models.Error(models.ErrInvalidCredentials.Error()))
			return
		}
		slog.Error("Server.loginHandler: login failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to log in"))
		return
	}

	token, err := s.provider.IssueToken(session.UserID, session.Email)
	if err != nil {
		slog.Error("Server.loginHandler: failed to issue token", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to issue token"))
		return
	}
	slog.Info("Server.loginHandler: login succeeded", "user_id", session.UserID)
	writeJSONResponse(w, http.StatusOK, models.Success(authResult{Token: token, Session: session}))
}

// logoutHandler serves POST /auth/logout. Access tokens are stateless, so
// logout on the server side only acknowledges; the client drops its token.
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.provider.Logout(r.Context()); err != nil {
		slog.Error("Server.logoutHandler: logout failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to log out"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Logged out", nil))
}
