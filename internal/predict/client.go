// Package predict talks to the prediction endpoints and hosts the rule-based
// mental health analyzer.
//
// The diabetes model itself lives behind an external HTTP service; this
// package owns the wire contract only. A body carrying an error field is a
// valid, displayable "model not ready" outcome, not a failure.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/healthhack/healthmate/internal/models"
)

// DefaultTimeout bounds a single prediction request.
const DefaultTimeout = 30 * time.Second

// Wire paths of the prediction endpoints.
const (
	PathPredictDiabetes     = "/predict-diabetes"
	PathAnalyzeMentalHealth = "/analyze-mental-health"
)

// Opts holds client configuration.
type Opts struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Option configures the prediction client.
type Option func(*Opts)

// WithBaseURL sets the prediction service base URL.
func WithBaseURL(url string) Option {
	return func(o *Opts) { o.BaseURL = url }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Opts) { o.HTTPClient = c }
}

// Client posts form payloads to the prediction endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a prediction client.
func NewClient(opts ...Option) *Client {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	slog.Debug("Creating predict Client", "base_url", cfg.BaseURL)
	return &Client{baseURL: cfg.BaseURL, http: cfg.HTTPClient}
}

// diabetesWire is the raw response shape of the diabetes endpoint: either a
// prediction or an error field signalling the model is not loaded.
type diabetesWire struct {
	Prediction  string  `json:"prediction"`
	Probability float64 `json:"probability"`
	Error       string  `json:"error"`
}

// PredictDiabetes posts a diabetes input and decodes the result. A response
// with an error field yields a NotReady result and a nil error.
func (c *Client) PredictDiabetes(ctx context.Context, in models.DiabetesInput) (models.DiabetesResult, error) {
	var wire diabetesWire
	if err := c.post(ctx, PathPredictDiabetes, in, &wire); err != nil {
		return models.DiabetesResult{}, err
	}
	if wire.Error != "" {
		slog.Info("Diabetes predictor not ready", "upstream_error", wire.Error)
		return models.DiabetesResult{NotReady: true}, nil
	}
	if wire.Prediction == "" {
		return models.DiabetesResult{}, fmt.Errorf("%w: missing prediction field", models.ErrMalformedResponse)
	}
	return models.DiabetesResult{Prediction: wire.Prediction, Probability: wire.Probability}, nil
}

// AnalyzeMentalHealth posts the full questionnaire and decodes the check-in
// message.
func (c *Client) AnalyzeMentalHealth(ctx context.Context, in models.MentalHealthInput) (models.MentalHealthResult, error) {
	var out models.MentalHealthResult
	if err := c.post(ctx, PathAnalyzeMentalHealth, in, &out); err != nil {
		return models.MentalHealthResult{}, err
	}
	return out, nil
}

// post sends a JSON POST and decodes the response body into out. Transport
// failures map to ErrNetwork, undecodable bodies to ErrMalformedResponse.
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("Prediction request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", models.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Prediction request rejected", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("%w: unexpected status %d", models.ErrNetwork, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Warn("Prediction response undecodable", "path", path, "error", err)
		return fmt.Errorf("%w: %v", models.ErrMalformedResponse, err)
	}
	return nil
}
