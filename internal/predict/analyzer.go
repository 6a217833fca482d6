package predict

import (
	"unicode/utf8"

	"github.com/healthhack/healthmate/internal/models"
	"github.com/healthhack/healthmate/internal/selfcare"
)

// Analyzer scores a mental health check-in with a fixed rule set. It is not
// a model: the scoring tables and message tiers are part of the product.
type Analyzer struct{}

// NewAnalyzer creates the check-in analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Scoring tables. Unlisted answers contribute 0.
var (
	moodScores   = map[string]int{"good": 2, "okay": 1, "meh": 0, "bad": -2}
	energyScores = map[string]int{"high": 2, "normal": 1, "low": -1, "drained": -2}
	worryScores  = map[string]int{"none": 1, "some": 0, "lot": -1, "constant": -2}
	sleepScores  = map[string]int{"rested": 1, "okay": 0, "restless": -1, "bad": -2}
)

// MaxSelfCareBoost caps the contribution of self-care tags.
const MaxSelfCareBoost = 3

// MinJournalLength is the journal length, in characters, that earns the
// reflection bonus.
const MinJournalLength = 30

// Check-in message tiers.
const (
	messageToughTime = "It sounds like you're going through a tough time. " +
		"Consider reaching out to someone you trust, and if you're comfortable, consider seeking professional support. " +
		"If you're in immediate danger or crisis, please contact local emergency services."
	messageFeelingOff = "You might be feeling off today. Small self-care steps (hydration, a short walk, a breathing exercise) could help. " +
		"If this continues, check in with a friend or a professional."
	messageDoingOkay = "You're doing okay from this check-in. Keep practicing the self-care that supports you, " +
		"and consider maintaining a brief daily reflection to track trends."
)

// Analyze scores the questionnaire and returns the tiered message plus a
// compact summary.
func (a *Analyzer) Analyze(in models.MentalHealthInput) models.MentalHealthResult {
	care := selfcare.Canonical(in.SelfCare)

	score := moodScores[in.Mood] +
		energyScores[in.Energy] +
		worryScores[in.Worry] +
		sleepScores[in.Sleep]

	boost := len(care)
	if boost > MaxSelfCareBoost {
		boost = MaxSelfCareBoost
	}
	score += boost

	// Characters, not bytes: a short multibyte journal earns no bonus.
	if utf8.RuneCountInString(in.Journal) > MinJournalLength {
		score++
	}

	var message string
	switch {
	case score <= -2:
		message = messageToughTime
	case score <= 1:
		message = messageFeelingOff
	default:
		message = messageDoingOkay
	}

	return models.MentalHealthResult{
		Message: message,
		Summary: &models.MentalHealthSummary{
			Score: score,
			Mood:  in.Mood,
			// Counts the canonical selection, not the raw slice: the
			// endpoint accepts arbitrary JSON, and duplicated or unknown
			// tags must not inflate the summary.
			SelfCareCount: len(care),
		},
	}
}
