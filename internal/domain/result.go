package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceResult is the verdict of a single upstream analyzer. The two
// analyzers themselves live outside echopulse; only this contract is
// consumed. Score is in [-1, 1], Confidence in [0, 1].
type SourceResult struct {
	Category    EmotionCategory `json:"category"`
	Score       float64         `json:"score"`
	Confidence  float64         `json:"confidence"`
	Explanation string          `json:"explanation,omitempty"`
}

// MatchedPattern records one linguistic rule occurrence that contributed to a
// classification. Score is the effective contribution, i.e. the rule weight
// multiplied by the context modifier (-1.0 negated, 1.0 neutral, 1.5
// intensified).
type MatchedPattern struct {
	Description string          `json:"description"`
	Category    EmotionCategory `json:"category"`
	Weight      float64         `json:"weight"`
	Score       float64         `json:"score"`
}

// ClassificationResult is the outcome of classifying one utterance.
// Immutable once produced; downstream consumers read, never mutate.
// Score always carries the caller's base sentiment unchanged.
type ClassificationResult struct {
	ID          uuid.UUID        `json:"id"`
	SpeakerID   string           `json:"speaker_id"`
	Category    EmotionCategory  `json:"category"`
	Confidence  float64          `json:"confidence"`
	Score       float64          `json:"score"`
	Matches     []MatchedPattern `json:"matched_patterns,omitempty"`
	Explanation string           `json:"explanation"`
	Timestamp   time.Time        `json:"timestamp"`
}

// CombinationResult is a reconciled verdict built from up to two analyzer
// results, plus metadata about how the reconciliation was made.
type CombinationResult struct {
	ID          uuid.UUID       `json:"id"`
	Category    EmotionCategory `json:"category"`
	Confidence  float64         `json:"confidence"`
	Score       float64         `json:"score"`
	Explanation string          `json:"explanation"`
	Timestamp   time.Time       `json:"timestamp"`

	// Combination metadata.
	Strategy       string        `json:"strategy"`
	AnalysisSource string        `json:"analysis_source"`
	Transformer    *SourceResult `json:"transformer,omitempty"`
	LLM            *SourceResult `json:"llm,omitempty"`
	Agreement      *bool         `json:"agreement,omitempty"`
}

// Record is the flat serialization format sent to persistence and rendering.
type Record struct {
	Category    string           `json:"category"`
	Confidence  float64          `json:"confidence"`
	Score       float64          `json:"score"`
	Intensity   float64          `json:"intensity"`
	Label       string           `json:"label"`
	Explanation string           `json:"explanation"`
	Patterns    []MatchedPattern `json:"matched_patterns,omitempty"`
}

// Record flattens a classification result for storage or rendering.
func (r ClassificationResult) Record() Record {
	return Record{
		Category:    string(r.Category),
		Confidence:  r.Confidence,
		Score:       r.Score,
		Intensity:   abs(r.Score),
		Label:       string(LabelForScore(r.Score)),
		Explanation: r.Explanation,
		Patterns:    r.Matches,
	}
}

// Record flattens a combination result for storage or rendering.
func (r CombinationResult) Record() Record {
	return Record{
		Category:    string(r.Category),
		Confidence:  r.Confidence,
		Score:       r.Score,
		Intensity:   abs(r.Score),
		Label:       string(LabelForScore(r.Score)),
		Explanation: r.Explanation,
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
