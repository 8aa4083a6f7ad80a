package classify

import (
	"strings"

	"github.com/pejman93/echopulse/internal/domain"
)

// Scoring constants. The boost/override steps run in a fixed sequence and
// compound un-normalized until the final normalization step; the order is
// load-bearing for boundary inputs and must not be rearranged.
const (
	ambivalenceThreshold   = 0.3
	ambivalenceBoostFactor = 1.5
	strongAmbivalentScore  = 0.8

	fallbackPrimaryMass  = 0.8
	fallbackResidualMass = 0.2
	fallbackScoreCutoff  = 0.5

	bothAndBoost       = 0.5
	bothAndStrongBoost = 0.8
	hardshipBoost      = 0.6
	questioningBoost   = 0.7

	redactedSorrowBoost   = 0.9
	redactedNeutralBoost  = 0.8
	redactedHopePenalty   = 0.1
	redactedHopeDampening = 0.2
	redactedNegativeScore = -0.3

	gatingMagnitude = 0.7
	gatingBoost     = 1.3
	gatingPenalty   = 0.7

	arcReadWindow        = 5
	arcTransformBonus    = 0.8
	arcSorrowToHopeBonus = 0.7

	confidenceFloor   = 0.1
	confidenceCeiling = 0.95
	marginFactor      = 0.3
	strongMatchBonus  = 0.2
	bonusCeiling      = 0.98
	strongMatchCutoff = 1.0
)

type scoreParams struct {
	Matches      []domain.MatchedPattern
	BaseScore    float64
	OriginalText string // pre-normalization, for redaction marker detection
	Normalized   string
	Calibration  map[domain.EmotionCategory]float64

	// ArcWindow appends the provisional leading category to the speaker's
	// narrative arc and returns the most recent entries (at most 5, oldest
	// first). Nil when the caller supplied no context window.
	ArcWindow func(provisional domain.EmotionCategory) []domain.EmotionCategory
}

type scoreOutcome struct {
	Scores     map[domain.EmotionCategory]float64
	Category   domain.EmotionCategory
	Confidence float64
}

// scoreCategories aggregates pattern matches into a normalized category score
// vector and derives the winning category and confidence.
func scoreCategories(p scoreParams) scoreOutcome {
	scores := make(map[domain.EmotionCategory]float64, len(domain.Categories()))
	for _, cat := range domain.Categories() {
		scores[cat] = 0
	}

	// Step 1: accumulate raw match contributions.
	for _, m := range p.Matches {
		scores[m.Category] += m.Score
	}

	// Step 2: ambivalence boost. Significant mass in both hope and sorrow is
	// itself evidence of ambivalence; a strong explicit ambivalence marker
	// dominates outright.
	if scores[domain.Hope] > ambivalenceThreshold && scores[domain.Sorrow] > ambivalenceThreshold {
		scores[domain.Ambivalent] += min(scores[domain.Hope], scores[domain.Sorrow]) * ambivalenceBoostFactor
	}
	for _, m := range p.Matches {
		if m.Category == domain.Ambivalent && m.Score > strongAmbivalentScore {
			scores[domain.Ambivalent] *= 2
			break
		}
	}

	// Step 3: no pattern fired, derive mass from the base sentiment alone.
	if totalAbsMass(scores) == 0 {
		switch {
		case p.BaseScore < -fallbackScoreCutoff:
			scores[domain.Sorrow] = fallbackPrimaryMass
			scores[domain.ReflectiveNeutral] = fallbackResidualMass
		case p.BaseScore > fallbackScoreCutoff:
			scores[domain.Hope] = fallbackPrimaryMass
			scores[domain.ReflectiveNeutral] = fallbackResidualMass
		default:
			scores[domain.ReflectiveNeutral] = 1.0
		}
	}

	// Step 4: priority overrides for high-signal constructions.
	applyOverrides(scores, p.Normalized, p.OriginalText, p.BaseScore)

	// Step 5: sentiment magnitude gating. Only a strong base score may tilt
	// hope/sorrow; weaker sentiment must not override pattern evidence.
	if p.BaseScore < -gatingMagnitude {
		scores[domain.Sorrow] *= gatingBoost
		scores[domain.Hope] *= gatingPenalty
	} else if p.BaseScore > gatingMagnitude {
		scores[domain.Hope] *= gatingBoost
		scores[domain.Sorrow] *= gatingPenalty
	}

	// Step 6: speaker calibration.
	for cat, factor := range p.Calibration {
		scores[cat] *= factor
	}

	// Step 7: narrative arc. Checked in order; first hit wins.
	if p.ArcWindow != nil {
		recent := p.ArcWindow(leader(scores))
		if len(recent) >= 2 {
			if containsCategory(recent, domain.Transformative) {
				scores[domain.Transformative] += arcTransformBonus
			} else if recent[0] == domain.Sorrow && recent[len(recent)-1] == domain.Hope {
				scores[domain.Transformative] += arcSorrowToHopeBonus
			}
		}
	}

	// Step 8: normalize by total absolute mass.
	preNormTop := scores[leader(scores)]
	if total := totalAbsMass(scores); total > 0 {
		for cat := range scores {
			scores[cat] /= total
		}
	}

	winner := leader(scores)
	top, second := topTwo(scores)
	confidence := top + (top-second)*marginFactor
	confidence = max(confidenceFloor, min(confidenceCeiling, confidence))
	if preNormTop > strongMatchCutoff {
		confidence = min(bonusCeiling, confidence+strongMatchBonus)
	}

	return scoreOutcome{Scores: scores, Category: winner, Confidence: confidence}
}

func applyOverrides(scores map[domain.EmotionCategory]float64, normalized, original string, baseScore float64) {
	// Explicit "both ... and ..." constructions.
	if strings.Contains(normalized, "both") && (strings.Contains(normalized, "and") || strings.Contains(normalized, "&")) {
		boost := bothAndBoost
		if containsAny(normalized, "adventure", "mistake", "terrible", "wonderful") {
			boost = bothAndStrongBoost
		}
		scores[domain.Ambivalent] += boost
	}

	// Causal constructions linking hardship to learning.
	if containsAny(normalized, "death", "taught", "showed", "made me", "forced me") {
		scores[domain.Transformative] += hardshipBoost
	}

	// Self-referential questioning.
	if strings.Contains(normalized, "questioning") ||
		(strings.Contains(normalized, "find myself") && containsAny(normalized, "questioning", "thinking", "wondering")) {
		scores[domain.ReflectiveNeutral] += questioningBoost
	}

	// Content-safety redaction markers in the original text. Redacted speech
	// is rarely hopeful: bias toward sorrow when sentiment is already
	// negative, reflective neutral otherwise, and suppress hope either way.
	if strings.Contains(original, "*") {
		if baseScore < redactedNegativeScore {
			scores[domain.Sorrow] += redactedSorrowBoost
			scores[domain.Hope] *= redactedHopePenalty
		} else {
			scores[domain.ReflectiveNeutral] += redactedNeutralBoost
			scores[domain.Hope] *= redactedHopeDampening
		}
	}
}

// leader returns the category with the highest accumulator, breaking ties by
// the stable domain.Categories() order.
func leader(scores map[domain.EmotionCategory]float64) domain.EmotionCategory {
	best := domain.Categories()[0]
	for _, cat := range domain.Categories()[1:] {
		if scores[cat] > scores[best] {
			best = cat
		}
	}
	return best
}

func topTwo(scores map[domain.EmotionCategory]float64) (top, second float64) {
	for _, cat := range domain.Categories() {
		v := scores[cat]
		if v > top {
			top, second = v, top
		} else if v > second {
			second = v
		}
	}
	return top, second
}

func totalAbsMass(scores map[domain.EmotionCategory]float64) float64 {
	var total float64
	for _, v := range scores {
		if v < 0 {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

func containsCategory(cats []domain.EmotionCategory, want domain.EmotionCategory) bool {
	for _, c := range cats {
		if c == want {
			return true
		}
	}
	return false
}

func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
