package forms

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/healthhack/healthmate/internal/models"
	"github.com/healthhack/healthmate/internal/selfcare"
)

// MentalHealthAnalyzer is the transport the check-in form submits through.
// Implemented by predict.Client.
type MentalHealthAnalyzer interface {
	AnalyzeMentalHealth(ctx context.Context, in models.MentalHealthInput) (models.MentalHealthResult, error)
}

// Writable field names of the mental health check-in form. Self-care tags
// are toggled through Toggle, not SetField.
const (
	FieldMood        = "mood"
	FieldMoodTrigger = "moodTrigger"
	FieldSleep       = "sleep"
	FieldEnergy      = "energy"
	FieldWorry       = "worry"
	FieldJoy         = "joy"
	FieldSocial      = "social"
	FieldFocus       = "focus"
	FieldBody        = "body"
	FieldOutlook     = "outlook"
	FieldJournal     = "journal"
)

var mentalFields = map[string]bool{
	FieldMood:        true,
	FieldMoodTrigger: true,
	FieldSleep:       true,
	FieldEnergy:      true,
	FieldWorry:       true,
	FieldJoy:         true,
	FieldSocial:      true,
	FieldFocus:       true,
	FieldBody:        true,
	FieldOutlook:     true,
	FieldJournal:     true,
}

// MentalHealthForm is the view model for the mental health check-in view.
// It shares the diabetes form's submission discipline: one in-flight
// request, statuses idle/submitting/succeeded/failed, stale responses
// discarded after Close.
type MentalHealthForm struct {
	mu         sync.Mutex
	analyzer   MentalHealthAnalyzer
	fields     map[string]string
	selfCare   []string
	status     models.SubmitStatus
	message    string
	summary    *models.MentalHealthSummary
	closed     bool
	generation uint64
}

// NewMentalHealthForm returns a fresh form bound to the given analyzer.
func NewMentalHealthForm(a MentalHealthAnalyzer) *MentalHealthForm {
	return &MentalHealthForm{
		analyzer: a,
		fields:   make(map[string]string),
		status:   models.SubmitIdle,
	}
}

// SetField stores the raw text of a form field. Unknown field names are
// logged and ignored.
func (f *MentalHealthForm) SetField(name, value string) {
	if !mentalFields[name] {
		slog.Warn("MentalHealthForm.SetField ignoring unknown field", "field", name)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[name] = value
}

// Field returns the raw text of a form field.
func (f *MentalHealthForm) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[name]
}

// Toggle flips a self-care tag in or out of the selection. Tags outside the
// fixed whitelist are ignored.
func (f *MentalHealthForm) Toggle(tag string) {
	if !selfcare.Valid(tag) {
		slog.Warn("MentalHealthForm.Toggle ignoring unknown tag", "tag", tag)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selfCare = selfcare.Toggle(f.selfCare, tag)
}

// SelfCare returns a copy of the current self-care selection.
func (f *MentalHealthForm) SelfCare() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.selfCare))
	copy(out, f.selfCare)
	return out
}

// Status returns the current submission status.
func (f *MentalHealthForm) Status() models.SubmitStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Message returns the analyzer's message verbatim, or the generic failure
// message. Empty until a submission completes.
func (f *MentalHealthForm) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Summary returns the compact summary of the last successful check-in, or
// nil when none was returned.
func (f *MentalHealthForm) Summary() *models.MentalHealthSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary
}

// input builds the wire payload from the raw fields. Callers hold f.mu.
func (f *MentalHealthForm) input() models.MentalHealthInput {
	tags := make([]string, len(f.selfCare))
	copy(tags, f.selfCare)
	return models.MentalHealthInput{
		Mood:        f.fields[FieldMood],
		MoodTrigger: f.fields[FieldMoodTrigger],
		Sleep:       f.fields[FieldSleep],
		Energy:      f.fields[FieldEnergy],
		Worry:       f.fields[FieldWorry],
		Joy:         f.fields[FieldJoy],
		Social:      f.fields[FieldSocial],
		SelfCare:    tags,
		Focus:       f.fields[FieldFocus],
		Body:        f.fields[FieldBody],
		Outlook:     f.fields[FieldOutlook],
		Journal:     f.fields[FieldJournal],
	}
}

// Submit sends the check-in to the analyzer and records its message. It
// blocks until the round trip completes.
func (f *MentalHealthForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return models.ErrFormClosed
	}
	if f.status == models.SubmitInFlight {
		f.mu.Unlock()
		return models.ErrSubmitInFlight
	}
	f.status = models.SubmitInFlight
	f.message = ""
	f.summary = nil
	gen := f.generation
	in := f.input()
	f.mu.Unlock()

	slog.Debug("MentalHealthForm.Submit sending", "mood", in.Mood, "selfcare", len(in.SelfCare))
	res, err := f.analyzer.AnalyzeMentalHealth(ctx, in)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || gen != f.generation {
		slog.Debug("MentalHealthForm.Submit discarding stale response")
		return models.ErrFormClosed
	}
	if err != nil {
		slog.Warn("MentalHealthForm.Submit failed", "error", err)
		f.status = models.SubmitFailed
		f.message = MsgServerError
		return fmt.Errorf("analyze mental health: %w", err)
	}
	f.status = models.SubmitSucceeded
	f.message = res.Message
	f.summary = res.Summary
	return nil
}

// Reset clears the fields, the self-care selection and the displayed
// outcome. The caller decides the form's lifetime; nothing resets it
// implicitly.
func (f *MentalHealthForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = make(map[string]string)
	f.selfCare = nil
	f.status = models.SubmitIdle
	f.message = ""
	f.summary = nil
	f.generation++
}

// Close tears the form down. Subsequent submits are rejected and any
// response still in flight is discarded.
func (f *MentalHealthForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.generation++
}
