package forms

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/healthhack/healthmate/internal/models"
)

type fakeAnalyzer struct {
	lastIn models.MentalHealthInput
	res    models.MentalHealthResult
	err    error
}

func (a *fakeAnalyzer) AnalyzeMentalHealth(ctx context.Context, in models.MentalHealthInput) (models.MentalHealthResult, error) {
	a.lastIn = in
	return a.res, a.err
}

func TestMentalSubmitDisplaysMessageVerbatim(t *testing.T) {
	a := &fakeAnalyzer{res: models.MentalHealthResult{
		Message: "You seem okay.",
		Summary: &models.MentalHealthSummary{Score: 3, Mood: "okay", SelfCareCount: 2},
	}}
	f := NewMentalHealthForm(a)
	f.SetField(FieldMood, "okay")
	f.SetField(FieldJournal, "went for a long walk today")
	f.Toggle("meal")
	f.Toggle("water")

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if got := f.Message(); got != "You seem okay." {
		t.Errorf("message = %q", got)
	}
	if s := f.Summary(); s == nil || s.SelfCareCount != 2 {
		t.Errorf("summary = %+v", s)
	}
	if a.lastIn.Mood != "okay" || len(a.lastIn.SelfCare) != 2 {
		t.Errorf("payload = %+v", a.lastIn)
	}
}

func TestMentalToggleSetSemantics(t *testing.T) {
	f := NewMentalHealthForm(&fakeAnalyzer{})
	f.Toggle("meal")
	f.Toggle("water")
	f.Toggle("meal") // second toggle removes
	f.Toggle("nap")  // not in the whitelist

	if got := f.SelfCare(); !reflect.DeepEqual(got, []string{"water"}) {
		t.Errorf("selection = %v, want [water]", got)
	}
}

func TestMentalFailureShowsGenericMessage(t *testing.T) {
	a := &fakeAnalyzer{err: models.ErrNetwork}
	f := NewMentalHealthForm(a)

	err := f.Submit(context.Background())
	if !errors.Is(err, models.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
	if got := f.Status(); got != models.SubmitFailed {
		t.Errorf("status = %q", got)
	}
	if got := f.Message(); got != MsgServerError {
		t.Errorf("message = %q, want the generic message", got)
	}
}

func TestMentalSubmitAfterCloseRejected(t *testing.T) {
	f := NewMentalHealthForm(&fakeAnalyzer{})
	f.Close()
	if err := f.Submit(context.Background()); !errors.Is(err, models.ErrFormClosed) {
		t.Errorf("error = %v, want ErrFormClosed", err)
	}
}

func TestMentalResubmitAfterFailure(t *testing.T) {
	a := &fakeAnalyzer{err: models.ErrNetwork}
	f := NewMentalHealthForm(a)
	if err := f.Submit(context.Background()); err == nil {
		t.Fatal("expected first submit to fail")
	}

	a.err = nil
	a.res = models.MentalHealthResult{Message: "Sounds like a tough time."}
	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if got := f.Message(); got != "Sounds like a tough time." {
		t.Errorf("message = %q", got)
	}
	if got := f.Status(); got != models.SubmitSucceeded {
		t.Errorf("status = %q", got)
	}
}
