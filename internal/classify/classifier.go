package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pejman93/echopulse/internal/domain"
	"github.com/pejman93/echopulse/internal/metrics"
)

// UnknownSpeaker is the sentinel speaker identifier used when the caller
// supplies none. Classification never fails on missing speaker context.
const UnknownSpeaker = "unknown"

const minTextLength = 3

// SpeakerState is the subset of speaker store operations the classifier
// needs. Implementations must serialize read-modify-write access per speaker.
type SpeakerState interface {
	// Calibration returns the speaker's per-category multipliers, creating
	// the profile with all-1.0 factors on first use.
	Calibration(ctx context.Context, speakerID string) (map[domain.EmotionCategory]float64, error)

	// AdjustCalibration atomically multiplies one calibration factor and
	// returns the new value. Implementations clamp the result.
	AdjustCalibration(ctx context.Context, speakerID string, category domain.EmotionCategory, multiplier float64) (float64, error)

	// AppendArc appends a category to the speaker's narrative arc log and
	// returns the most recent entries, oldest first, bounded at five.
	AppendArc(ctx context.Context, speakerID string, category domain.EmotionCategory) ([]domain.EmotionCategory, error)
}

// Request carries one utterance into classification. Score is the base
// sentiment from an upstream analyzer, in [-1, 1].
type Request struct {
	Text          string
	Score         float64
	SpeakerID     string
	ContextWindow []string
}

// Classifier is the classification orchestrator. It is stateless with respect
// to business data; all per-speaker state lives behind SpeakerState.
type Classifier struct {
	library  *Library
	speakers SpeakerState
	clock    clockwork.Clock
}

func New(speakers SpeakerState, clock clockwork.Clock) *Classifier {
	return &Classifier{
		library:  DefaultLibrary(),
		speakers: speakers,
		clock:    clock,
	}
}

// Classify assigns an emotion category to one utterance. Every input yields
// a valid result: degenerate input short-circuits to reflective_neutral with
// low confidence, and speaker store failures degrade to neutral calibration
// rather than failing the call. The result's Score always carries the
// caller's base sentiment unchanged.
func (c *Classifier) Classify(ctx context.Context, req Request) domain.ClassificationResult {
	timer := metrics.NewClassificationTimer()
	defer timer.ObserveDuration()

	speakerID := req.SpeakerID
	if speakerID == "" {
		speakerID = UnknownSpeaker
	}

	trimmed := strings.TrimSpace(req.Text)
	if utf8.RuneCountInString(trimmed) < minTextLength {
		return c.shortCircuit(speakerID, req.Score, 0.1,
			"Text too short for reliable emotion classification. Defaulting to neutral.")
	}

	if IsLikelyNonsensical(trimmed) {
		return c.shortCircuit(speakerID, req.Score, 0.2,
			fmt.Sprintf("Content appears nonsensical or may be transcription noise. Applying neutral classification with base sentiment score (%.2f).", req.Score))
	}

	normalized := Normalize(trimmed)
	matches := Match(normalized, c.library)

	calibration, err := c.speakers.Calibration(ctx, speakerID)
	if err != nil {
		slog.Warn("Calibration lookup failed, using neutral factors", "speaker_id", speakerID, "error", err)
		calibration = nil
	}

	var arcWindow func(domain.EmotionCategory) []domain.EmotionCategory
	if len(req.ContextWindow) > 0 {
		arcWindow = func(provisional domain.EmotionCategory) []domain.EmotionCategory {
			recent, err := c.speakers.AppendArc(ctx, speakerID, provisional)
			if err != nil {
				slog.Warn("Arc append failed, skipping narrative bonus", "speaker_id", speakerID, "error", err)
				return nil
			}
			return recent
		}
	}

	outcome := scoreCategories(scoreParams{
		Matches:      matches,
		BaseScore:    req.Score,
		OriginalText: trimmed,
		Normalized:   normalized,
		Calibration:  calibration,
		ArcWindow:    arcWindow,
	})

	explanation := buildExplanation(outcome.Category, matches, outcome.Confidence, req.Score, outcome.Scores, trimmed)

	metrics.ClassificationsTotal.WithLabelValues(string(outcome.Category)).Inc()

	return domain.ClassificationResult{
		ID:          uuid.New(),
		SpeakerID:   speakerID,
		Category:    outcome.Category,
		Confidence:  outcome.Confidence,
		Score:       req.Score,
		Matches:     matches,
		Explanation: explanation,
		Timestamp:   c.clock.Now(),
	}
}

func (c *Classifier) shortCircuit(speakerID string, score, confidence float64, explanation string) domain.ClassificationResult {
	metrics.ClassificationsTotal.WithLabelValues(string(domain.ReflectiveNeutral)).Inc()
	metrics.DegenerateInputsTotal.Inc()
	return domain.ClassificationResult{
		ID:          uuid.New(),
		SpeakerID:   speakerID,
		Category:    domain.ReflectiveNeutral,
		Confidence:  confidence,
		Score:       score,
		Matches:     nil,
		Explanation: explanation,
		Timestamp:   c.clock.Now(),
	}
}

// UpdateSpeakerProfile applies accuracy feedback to one speaker's calibration
// factor for a category: the stored factor is multiplied by
// (1 + (accuracy - 0.5)), so accuracy above 0.5 amplifies the category and
// below 0.5 dampens it. The store clamps the result.
func (c *Classifier) UpdateSpeakerProfile(ctx context.Context, speakerID string, category domain.EmotionCategory, accuracy float64) (float64, error) {
	if !category.Valid() {
		return 0, domain.ErrUnknownCategory
	}
	if speakerID == "" {
		speakerID = UnknownSpeaker
	}

	factor, err := c.speakers.AdjustCalibration(ctx, speakerID, category, 1.0+(accuracy-0.5))
	if err != nil {
		return 0, fmt.Errorf("adjust calibration for %s: %w", speakerID, err)
	}
	metrics.FeedbackTotal.WithLabelValues(string(category)).Inc()
	return factor, nil
}
