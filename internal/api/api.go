// Package api serves the HealthMate HTTP surface: the prediction endpoints
// consumed by the web client, account and profile management, the dashboard
// snapshot and the assistant chat.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/healthhack/healthmate/internal/assistant"
	"github.com/healthhack/healthmate/internal/identity"
	"github.com/healthhack/healthmate/internal/models"
	"github.com/healthhack/healthmate/internal/predict"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8000"

// DiabetesUpstream proxies prediction requests to an external inference
// service. Implemented by predict.Client.
type DiabetesUpstream interface {
	PredictDiabetes(ctx context.Context, in models.DiabetesInput) (models.DiabetesResult, error)
}

// Opts holds configuration options for the API server.
type Opts struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string
	// Upstream serves diabetes predictions. When nil the endpoint answers
	// not-ready.
	Upstream DiabetesUpstream
	// Responder answers assistant chat messages. Defaults to the
	// placeholder responder.
	Responder assistant.Responder
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithDiabetesUpstream sets the inference service proxied by the diabetes
// prediction endpoint.
func WithDiabetesUpstream(u DiabetesUpstream) Option {
	return func(o *Opts) { o.Upstream = u }
}

// WithResponder sets the assistant chat responder.
func WithResponder(r assistant.Responder) Option {
	return func(o *Opts) { o.Responder = r }
}

// Server wires the HealthMate services behind HTTP handlers.
type Server struct {
	addr      string
	provider  *identity.LocalProvider
	analyzer  *predict.Analyzer
	upstream  DiabetesUpstream
	responder assistant.Responder
}

// NewServer creates an API server backed by the given identity provider.
func NewServer(provider *identity.LocalProvider, opts ...Option) *Server {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Responder == nil {
		cfg.Responder = assistant.PlaceholderResponder{}
	}
	return &Server{
		addr:      cfg.Addr,
		provider:  provider,
		analyzer:  predict.NewAnalyzer(),
		upstream:  cfg.Upstream,
		responder: cfg.Responder,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("HealthMate API", nil))
	})

	// Published prediction wire contract; bare bodies, not the envelope.
	r.Post(predict.PathPredictDiabetes, s.predictDiabetesHandler)
	r.Post(predict.PathAnalyzeMentalHealth, s.analyzeMentalHealthHandler)

	r.Post("/auth/signup", s.signupHandler)
	r.Post("/auth/login", s.loginHandler)
	r.Post("/auth/logout", s.logoutHandler)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/profile", s.withAuth(s.getProfileHandler))
		r.Put("/profile", s.withAuth(s.putProfileHandler))
		r.Get("/dashboard", s.withAuth(s.dashboardHandler))
	})

	r.Post("/chat", s.chatHandler)

	return r
}

// Run starts the API server and blocks until it exits.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("Server.Run: HealthMate API listening", "addr", s.addr)
	return srv.ListenAndServe()
}

// withAuth verifies the bearer token and requires it to belong to the user
// addressed by the route.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			slog.Warn("Server.withAuth: missing bearer token", "path", r.URL.Path)
			writeJSONResponse(w, http.StatusUnauthorized, models.Error("Missing bearer token"))
			return
		}
		userID, err := s.provider.VerifyToken(token)
		if err != nil {
			slog.Warn("Server.withAuth: token rejected", "error", err)
			writeJSONResponse(w, http.StatusUnauthorized, models.Error("Invalid token"))
			return
		}
		if routeID := chi.URLParam(r, "userID"); routeID != "" && routeID != userID {
			slog.Warn("Server.withAuth: token user mismatch", "route_user", routeID)
			writeJSONResponse(w, http.StatusForbidden, models.Error("Forbidden"))
			return
		}
		next(w, r)
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
