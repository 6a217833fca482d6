package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/healthhack/healthmate/internal/models"
)

// notReadyBody mirrors the published not-ready answer of the diabetes
// endpoint: HTTP 200 with an error field instead of a prediction.
var notReadyBody = map[string]string{"error": "Model not loaded. Train model first."}

// predictDiabetesHandler serves POST /predict-diabetes. The response body is
// the bare wire contract the web client consumes: {prediction, probability}
// on success, {error} when no inference service is configured.
func (s *Server) predictDiabetesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var in models.DiabetesInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		slog.Warn("Server.predictDiabetesHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON format"})
		return
	}
	if s.upstream == nil {
		slog.Debug("Server.predictDiabetesHandler: no inference upstream configured")
		writeJSONResponse(w, http.StatusOK, notReadyBody)
		return
	}

	res, err := s.upstream.PredictDiabetes(r.Context(), in)
	if err != nil {
		slog.Error("Server.predictDiabetesHandler: upstream failed", "error", err)
		writeJSONResponse(w, http.StatusBadGateway, map[string]string{"error": "Inference service unavailable"})
		return
	}
	if res.NotReady {
		writeJSONResponse(w, http.StatusOK, notReadyBody)
		return
	}
	slog.Info("Server.predictDiabetesHandler: prediction served", "prediction", res.Prediction)
	writeJSONResponse(w, http.StatusOK, models.DiabetesResult{
		Prediction:  res.Prediction,
		Probability: res.Probability,
	})
}

// analyzeMentalHealthHandler serves POST /analyze-mental-health with the
// rule-based analyzer. Bare wire contract: {message, summary}.
func (s *Server) analyzeMentalHealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var in models.MentalHealthInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		slog.Warn("Server.analyzeMentalHealthHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON format"})
		return
	}

	res := s.analyzer.Analyze(in)
	slog.Debug("Server.analyzeMentalHealthHandler: check-in analyzed", "mood", in.Mood)
	writeJSONResponse(w, http.StatusOK, res)
}
