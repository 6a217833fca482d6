package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/healthhack/healthmate/internal/assistant"
	"github.com/healthhack/healthmate/internal/identity"
	"github.com/healthhack/healthmate/internal/models"
	"github.com/healthhack/healthmate/internal/store"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	provider := identity.NewLocalProvider(store.NewInMemoryStore(), identity.WithSecret("test-secret"))
	srv := httptest.NewServer(NewServer(provider, opts...).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, token string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response, result interface{}) models.APIResponse {
	t.Helper()
	defer resp.Body.Close()
	var envelope struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Result  json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if result != nil && envelope.Result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			t.Fatalf("decode result: %v", err)
		}
	}
	return models.APIResponse{Status: envelope.Status, Message: envelope.Message}
}

func signup(t *testing.T, srv *httptest.Server, email, password string) authResult {
	t.Helper()
	resp := postJSON(t, srv.URL+"/auth/signup", "", credentialsRequest{Email: email, Password: password})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}
	var res authResult
	decodeEnvelope(t, resp, &res)
	if res.Token == "" || res.Session == nil {
		t.Fatalf("signup result = %+v", res)
	}
	return res
}

func TestSignupLoginFlow(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "ada@example.com", "hunter22")

	// Duplicate signup conflicts.
	resp := postJSON(t, srv.URL+"/auth/signup", "", credentialsRequest{Email: "Ada@Example.com", Password: "other"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate signup status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/auth/login", "", credentialsRequest{Email: "ada@example.com", Password: "hunter22"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var res authResult
	decodeEnvelope(t, resp, &res)
	if res.Session.Email != "ada@example.com" {
		t.Errorf("session = %+v", res.Session)
	}

	resp = postJSON(t, srv.URL+"/auth/login", "", credentialsRequest{Email: "ada@example.com", Password: "wrong"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	auth := signup(t, srv, "ada@example.com", "hunter22")
	base := srv.URL + "/users/" + auth.Session.UserID + "/profile"

	req, _ := http.NewRequest(http.MethodPut, base, strings.NewReader(`{"name":"Ada","age":"36"}`))
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put profile: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put profile status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = http.NewRequest(http.MethodGet, base, nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	var doc models.UserProfile
	decodeEnvelope(t, resp, &doc)
	if doc.Name != "Ada" || doc.Age != "36" || doc.Email != "ada@example.com" {
		t.Errorf("profile = %+v", doc)
	}
}

func TestProfileAuthRequired(t *testing.T) {
	srv := newTestServer(t)
	auth := signup(t, srv, "ada@example.com", "hunter22")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/users/"+auth.Session.UserID+"/profile", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("missing token status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// A valid token for user A must not open user B's profile.
	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/users/someone-else/profile", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("cross-user status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDashboardSnapshot(t *testing.T) {
	srv := newTestServer(t)
	auth := signup(t, srv, "ada@example.com", "hunter22")

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/users/"+auth.Session.UserID+"/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	var snap models.DashboardSnapshot
	decodeEnvelope(t, resp, &snap)
	if snap.StressScore != 42 || snap.DiabetesRisk != 27 || len(snap.StressTrend) != 4 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Profile.UserID != auth.Session.UserID {
		t.Errorf("profile user = %q", snap.Profile.UserID)
	}
}

func TestPredictDiabetesNotReadyWithoutUpstream(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/predict-diabetes", "", models.DiabetesInput{Glucose: 120})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	defer resp.Body.Close()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Errorf("body = %v, want an error field", body)
	}
}

type fakeUpstream struct {
	res models.DiabetesResult
}

func (u fakeUpstream) PredictDiabetes(ctx context.Context, in models.DiabetesInput) (models.DiabetesResult, error) {
	return u.res, nil
}

func TestPredictDiabetesProxiesUpstream(t *testing.T) {
	srv := newTestServer(t, WithDiabetesUpstream(fakeUpstream{
		res: models.DiabetesResult{Prediction: "High Risk", Probability: 0.82},
	}))
	resp := postJSON(t, srv.URL+"/predict-diabetes", "", models.DiabetesInput{Glucose: 180})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	defer resp.Body.Close()
	var res models.DiabetesResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Prediction != "High Risk" || res.Probability != 0.82 {
		t.Errorf("result = %+v", res)
	}
}

func TestAnalyzeMentalHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/analyze-mental-health", "", models.MentalHealthInput{
		Mood:     "good",
		Energy:   "high",
		Worry:    "none",
		Sleep:    "rested",
		SelfCare: []string{"meal", "water"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	defer resp.Body.Close()
	var res models.MentalHealthResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Message == "" || res.Summary == nil {
		t.Fatalf("result = %+v", res)
	}
	if res.Summary.SelfCareCount != 2 {
		t.Errorf("summary = %+v", res.Summary)
	}
}

func TestChatPlaceholder(t *testing.T) {
	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/chat", "", chatRequest{Message: "Is walking good for me?"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var res chatResult
	decodeEnvelope(t, resp, &res)
	if res.Reply != assistant.PlaceholderReply {
		t.Errorf("reply = %q", res.Reply)
	}

	resp = postJSON(t, srv.URL+"/chat", "", chatRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank message status = %d", resp.StatusCode)
	}
	resp.Body.Close()
}
