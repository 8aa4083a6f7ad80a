package speaker

import (
	"context"

	"github.com/pejman93/echopulse/internal/domain"
)

// Default clamp range for calibration factors. Feedback is multiplicative, so
// without bounds repeated updates drive a factor arbitrarily high or low.
const (
	DefaultMinFactor = 0.1
	DefaultMaxFactor = 5.0
)

// arcReadWindow bounds how much of the arc log is ever consulted.
const arcReadWindow = 5

// Bounds is the clamp range applied to calibration factors.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultBounds returns the standard calibration clamp range.
func DefaultBounds() Bounds {
	return Bounds{Min: DefaultMinFactor, Max: DefaultMaxFactor}
}

func (b Bounds) clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Store abstracts per-speaker state storage.
type Store interface {
	// Calibration returns the speaker's per-category calibration factors,
	// initialized to 1.0 on first use.
	Calibration(ctx context.Context, speakerID string) (map[domain.EmotionCategory]float64, error)

	// AdjustCalibration atomically multiplies one factor, clamps it, and
	// returns the new value.
	AdjustCalibration(ctx context.Context, speakerID string, category domain.EmotionCategory, multiplier float64) (float64, error)

	// AppendArc appends a category to the speaker's narrative arc and returns
	// the most recent entries, oldest first, bounded at five. Appends preserve
	// per-speaker call order.
	AppendArc(ctx context.Context, speakerID string, category domain.EmotionCategory) ([]domain.EmotionCategory, error)

	// RecentArc returns the most recent arc entries without appending.
	RecentArc(ctx context.Context, speakerID string) ([]domain.EmotionCategory, error)
}

func neutralCalibration() map[domain.EmotionCategory]float64 {
	factors := make(map[domain.EmotionCategory]float64, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		factors[cat] = 1.0
	}
	return factors
}
