// Package forms holds the view models behind the two predictor views. A
// form collects free-text field values, submits them to the prediction
// transport, and exposes the outcome as display strings. Fields are not
// validated on entry; numeric parsing happens at submit time and parses
// unparseable text to zero.
package forms

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/healthhack/healthmate/internal/models"
	"github.com/healthhack/healthmate/internal/util"
)

// Display strings shown to the user. Failure causes are logged, never
// surfaced verbatim.
const (
	MsgModelNotReady = "Model not ready on server"
	MsgServerError   = "Error contacting server"
)

// DiabetesPredictor is the transport the diabetes form submits through.
// Implemented by predict.Client.
type DiabetesPredictor interface {
	PredictDiabetes(ctx context.Context, in models.DiabetesInput) (models.DiabetesResult, error)
}

// Writable field names of the diabetes form.
const (
	FieldAge           = "age"
	FieldBMI           = "bmi"
	FieldGlucose       = "glucose"
	FieldInsulin       = "insulin"
	FieldFamilyHistory = "family_history"
)

var diabetesFields = map[string]bool{
	FieldAge:           true,
	FieldBMI:           true,
	FieldGlucose:       true,
	FieldInsulin:       true,
	FieldFamilyHistory: true,
}

// DiabetesForm is the view model for the diabetes predictor view. At most
// one submission is in flight at a time; a second Submit while one is
// outstanding is rejected with ErrSubmitInFlight.
type DiabetesForm struct {
	mu         sync.Mutex
	predictor  DiabetesPredictor
	fields     map[string]string
	status     models.SubmitStatus
	result     string
	confidence string
	closed     bool
	generation uint64
}

// NewDiabetesForm returns a fresh form bound to the given predictor.
func NewDiabetesForm(p DiabetesPredictor) *DiabetesForm {
	return &DiabetesForm{
		predictor: p,
		fields:    make(map[string]string),
		status:    models.SubmitIdle,
	}
}

// SetField stores the raw text of a form field. Unknown field names are
// logged and ignored.
func (f *DiabetesForm) SetField(name, value string) {
	if !diabetesFields[name] {
		slog.Warn("DiabetesForm.SetField ignoring unknown field", "field", name)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[name] = value
}

// Field returns the raw text of a form field.
func (f *DiabetesForm) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields[name]
}

// Status returns the current submission status.
func (f *DiabetesForm) Status() models.SubmitStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Result returns the headline display line: the prediction text, the
// not-ready notice, or the generic failure message. Empty until a
// submission completes.
func (f *DiabetesForm) Result() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Confidence returns the probability formatted as a one-decimal percent,
// e.g. "82.0%". Empty when no prediction is displayed.
func (f *DiabetesForm) Confidence() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confidence
}

// input builds the wire payload from the raw fields. Callers hold f.mu.
func (f *DiabetesForm) input() models.DiabetesInput {
	return models.DiabetesInput{
		Age:           util.ParseFloatOrZero(f.fields[FieldAge]),
		BMI:           util.ParseFloatOrZero(f.fields[FieldBMI]),
		Glucose:       util.ParseFloatOrZero(f.fields[FieldGlucose]),
		Insulin:       util.ParseFloatOrZero(f.fields[FieldInsulin]),
		FamilyHistory: util.ParseIntOrZero(f.fields[FieldFamilyHistory]),
	}
}

// Submit sends the current field values to the predictor and records the
// outcome. It blocks until the round trip completes. A not-ready answer is
// a successful submission with a degraded display. When the form was closed
// while the request was in flight the response is discarded.
func (f *DiabetesForm) Submit(ctx context.Context) error {
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
	f.result = ""
	f.confidence = ""
	gen := f.generation
	in := f.input()
	f.mu.Unlock()

	slog.Debug("DiabetesForm.Submit sending", "glucose", in.Glucose, "bmi", in.BMI)
	res, err := f.predictor.PredictDiabetes(ctx, in)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || gen != f.generation {
		slog.Debug("DiabetesForm.Submit discarding stale response")
		return models.ErrFormClosed
	}
	if err != nil {
		slog.Warn("DiabetesForm.Submit failed", "error", err)
		f.status = models.SubmitFailed
		f.result = MsgServerError
		return fmt.Errorf("predict diabetes: %w", err)
	}
	f.status = models.SubmitSucceeded
	if res.NotReady {
		f.result = MsgModelNotReady
		return nil
	}
	f.result = res.Prediction
	f.confidence = fmt.Sprintf("%.1f%%", res.Probability*100)
	return nil
}

// Reset clears the fields and the displayed outcome. The caller decides the
// form's lifetime; nothing resets it implicitly. A reset invalidates any
// response still in flight.
func (f *DiabetesForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = make(map[string]string)
	f.status = models.SubmitIdle
	f.result = ""
	f.confidence = ""
	f.generation++
}

// Close tears the form down. Subsequent submits are rejected and any
// response still in flight is discarded.
func (f *DiabetesForm) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.generation++
}
