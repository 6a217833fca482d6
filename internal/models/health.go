// Package models defines the core data structures for HealthMate.
//
// This file holds the predictor wire contracts and the per-user profile
// document shared with the identity/document layer.
package models

import (
	"time"
)

// DiabetesInput is the request body for the diabetes prediction endpoint.
type DiabetesInput struct {
	Age           float64 `json:"age"`
	BMI           float64 `json:"bmi"`
	Glucose       float64 `json:"glucose"`
	Insulin       float64 `json:"insulin"`
	FamilyHistory int     `json:"family_history"`
}

// DiabetesResult is the decoded response of the diabetes prediction endpoint.
// NotReady is set when the endpoint answered with an error body instead of a
// prediction; that is a displayable degraded outcome, not a failure.
type DiabetesResult struct {
	Prediction  string  `json:"prediction"`
	Probability float64 `json:"probability"`
	NotReady    bool    `json:"-"`
}

// MentalHealthInput mirrors the full check-in questionnaire. Field names
// match the published wire contract.
type MentalHealthInput struct {
	Mood        string   `json:"mood"`
	MoodTrigger string   `json:"moodTrigger"`
	Sleep       string   `json:"sleep"`
	Energy      string   `json:"energy"`
	Worry       string   `json:"worry"`
	Joy         string   `json:"joy"`
	Social      string   `json:"social"`
	SelfCare    []string `json:"selfcare"`
	Focus       string   `json:"focus"`
	Body        string   `json:"body"`
	Outlook     string   `json:"outlook"`
	Journal     string   `json:"journal"`
}

// MentalHealthSummary is the compact summary returned alongside the check-in
// message.
type MentalHealthSummary struct {
	Score         int    `json:"score"`
	Mood          string `json:"mood"`
	SelfCareCount int    `json:"selfcare_count"`
}

// MentalHealthResult is the decoded response of the mental health endpoint.
type MentalHealthResult struct {
	Message string               `json:"message"`
	Summary *MentalHealthSummary `json:"summary,omitempty"`
}

// UserProfile is the per-user document stored by the identity/document
// provider, keyed by the session's user id. Numeric-looking fields stay
// strings: they are user-entered free text, parsed only where needed.
type UserProfile struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Age       string    `json:"age"`
	Height    string    `json:"height"`
	Weight    string    `json:"weight"`
	BMI       string    `json:"bmi"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Merge overlays the non-empty fields of other onto a copy of p and returns
// it. UserID, Email and CreatedAt are owned by the provider and never
// overwritten by a merge.
func (p UserProfile) Merge(other UserProfile) UserProfile {
	merged := p
	if other.Name != "" {
		merged.Name = other.Name
	}
	if other.Age != "" {
		merged.Age = other.Age
	}
	if other.Height != "" {
		merged.Height = other.Height
	}
	if other.Weight != "" {
		merged.Weight = other.Weight
	}
	if other.BMI != "" {
		merged.BMI = other.BMI
	}
	if other.Bio != "" {
		merged.Bio = other.Bio
	}
	if other.Avatar != "" {
		merged.Avatar = other.Avatar
	}
	return merged
}

// StressPoint is one sample of the dashboard stress trend.
type StressPoint struct {
	Date   string `json:"date"`
	Stress int    `json:"stress"`
}

// DashboardSnapshot is the authenticated weekly health snapshot: the user's
// profile document plus the trend series and headline scores rendered by the
// dashboard view.
type DashboardSnapshot struct {
	Profile      UserProfile   `json:"profile"`
	StressTrend  []StressPoint `json:"stress_trend"`
	StressScore  int           `json:"stress_score"`
	DiabetesRisk int           `json:"diabetes_risk"`
}
