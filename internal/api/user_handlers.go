package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/healthhack/healthmate/internal/models"
)

// Placeholder dashboard data served until real trend aggregation exists.
// Shape matches the snapshot the dashboard view renders.
var (
	placeholderStressTrend = []models.StressPoint{
		{Date: "2025-10-01", Stress: 30},
		{Date: "2025-10-10", Stress: 55},
		{Date: "2025-10-17", Stress: 48},
		{Date: "2025-10-23", Stress: 42},
	}
	placeholderStressScore  = 42
	placeholderDiabetesRisk = 27
)

// getProfileHandler serves GET /users/{userID}/profile. A user without a
// stored document gets an empty one keyed to their id.
func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	doc, err := s.provider.GetProfile(r.Context(), userID)
	if err != nil {
		slog.Error("Server.getProfileHandler: failed to load profile", "error", err, "user_id", userID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load profile"))
		return
	}
	if doc == nil {
		doc = &models.UserProfile{UserID: userID}
	}
	writeJSONResponse(w, http.StatusOK, models.Success(doc))
}

// putProfileHandler serves PUT /users/{userID}/profile. The write is a
// merge: non-empty incoming fields overlay the stored document.
func (s *Server) putProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	userID := chi.URLParam(r, "userID")
	var doc models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		slog.Warn("Server.putProfileHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	doc.UserID = userID

	if err := s.provider.SaveProfile(r.Context(), doc); err != nil {
		slog.Error("Server.putProfileHandler: failed to save profile", "error", err, "user_id", userID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to save profile"))
		return
	}
	slog.Info("Server.putProfileHandler: profile saved", "user_id", userID)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Profile saved", nil))
}

// dashboardHandler serves GET /users/{userID}/dashboard: the profile
// document plus the weekly stress trend and headline scores.
func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	doc, err := s.provider.GetProfile(r.Context(), userID)
	if err != nil {
		slog.Error("Server.dashboardHandler: failed to load profile", "error", err, "user_id", userID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to load dashboard"))
		return
	}
	if doc == nil {
		doc = &models.UserProfile{UserID: userID}
	}

	snap := models.DashboardSnapshot{
		Profile:      *doc,
		StressTrend:  placeholderStressTrend,
		StressScore:  placeholderStressScore,
		DiabetesRisk: placeholderDiabetesRisk,
	}
	writeJSONResponse(w, http.StatusOK, models.Success(snap))
}
