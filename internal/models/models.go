// Package models defines the core data structures for HealthMate.
//
// It includes the view enumeration driving the navigation shell, the session
// and profile types shared with the identity layer, and the error taxonomy
// surfaced to views.
package models

import (
	"errors"
)

// ViewName identifies a top-level view of the application shell.
type ViewName string

const (
	// ViewHome is the landing view and the initial state of the router.
	ViewHome ViewName = "home"
	// ViewLogin is the email/password login view.
	ViewLogin ViewName = "login"
	// ViewSignup is the account creation view.
	ViewSignup ViewName = "signup"
	// ViewDiabetes is the diabetes risk predictor form.
	ViewDiabetes ViewName = "diabetes"
	// ViewMental is the mental health check-in questionnaire.
	ViewMental ViewName = "mental"
	// ViewDashboard is the authenticated health snapshot view.
	ViewDashboard ViewName = "dashboard"
	// ViewProfile is the authenticated profile editor view.
	ViewProfile ViewName = "profile"
)

// DefaultView is the view mounted before any navigation happens.
const DefaultView = ViewHome

// IsValidViewName checks if the given view name is part of the shell.
func IsValidViewName(v ViewName) bool {
	switch v {
	case ViewHome, ViewLogin, ViewSignup, ViewDiabetes, ViewMental, ViewDashboard, ViewProfile:
		return true
	default:
		return false
	}
}

// Direction selects the enter/exit animation applied to a view transition.
type Direction string

const (
	// DirectionUp slides the view in from below.
	DirectionUp Direction = "up"
	// DirectionRight slides the view in from the right.
	DirectionRight Direction = "right"
	// DirectionDown slides the view in from above.
	DirectionDown Direction = "down"
)

// viewDirections maps each view to its transition direction.
var viewDirections = map[ViewName]Direction{
	ViewHome:      DirectionUp,
	ViewLogin:     DirectionUp,
	ViewSignup:    DirectionUp,
	ViewDiabetes:  DirectionRight,
	ViewMental:    DirectionDown,
	ViewDashboard: DirectionUp,
	ViewProfile:   DirectionUp,
}

// DirectionFor returns the animation direction for a view, defaulting to up
// for views with no explicit mapping.
func DirectionFor(v ViewName) Direction {
	if d, ok := viewDirections[v]; ok {
		return d
	}
	return DirectionUp
}

// Session is the authenticated identity state for the current user. A nil
// *Session means anonymous. It is produced exclusively by the identity layer
// and read-only everywhere else.
type Session struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// SubmitStatus represents the lifecycle of a form submission.
type SubmitStatus string

const (
	// SubmitIdle indicates no submission has been attempted.
	SubmitIdle SubmitStatus = "idle"
	// SubmitInFlight indicates a submission is outstanding.
	SubmitInFlight SubmitStatus = "submitting"
	// SubmitSucceeded indicates the last submission produced a result.
	SubmitSucceeded SubmitStatus = "succeeded"
	// SubmitFailed indicates the last submission failed.
	SubmitFailed SubmitStatus = "failed"
)

// Auth error taxonomy. The identity layer maps provider failures onto these
// sentinels; views render them as display strings and never retry on their
// own.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email is already in use")
	ErrPopupClosed        = errors.New("sign-in window was closed before completing")
	ErrNetwork            = errors.New("network error")
	ErrUnknown            = errors.New("unknown error")
)

// Prediction error taxonomy. ErrUpstreamNotReady is a degraded result, not a
// failure: the predictor endpoint answered but has no model loaded.
var (
	ErrMalformedResponse = errors.New("malformed prediction response")
	ErrUpstreamNotReady  = errors.New("prediction model not ready")
)

// Form lifecycle errors.
var (
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrFormClosed     = errors.New("form view has been torn down")
)

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
