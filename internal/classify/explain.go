package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pejman93/echopulse/internal/domain"
)

// buildExplanation synthesizes the human-readable rationale attached to every
// classification: winning category and confidence, top category scores, a
// description of the base sentiment, the strongest patterns behind the
// decision, and category-specific reasoning.
func buildExplanation(
	category domain.EmotionCategory,
	matches []domain.MatchedPattern,
	confidence float64,
	baseScore float64,
	scores map[domain.EmotionCategory]float64,
	originalText string,
) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Classified as %s with %.1f%% confidence.",
		strings.ToUpper(string(category)), confidence*100))

	parts = append(parts, "Category scores: "+topScoresSummary(scores, 3))

	parts = append(parts, fmt.Sprintf("Base sentiment: %s (%.2f)", sentimentDescription(baseScore), baseScore))

	if len(matches) > 0 {
		if summary := keyPatternsSummary(matches, category, 3); summary != "" {
			parts = append(parts, "Key patterns: "+summary)
		}
		if category == domain.Ambivalent && hasCategory(matches, domain.Hope) && hasCategory(matches, domain.Sorrow) {
			parts = append(parts, "Detected conflicting emotional signals indicating ambivalence")
		}
	} else if confidence < 0.3 {
		parts = append(parts, "Low confidence due to lack of clear emotional indicators")
	}

	parts = append(parts, categoryRationale(category))

	if strings.Contains(originalText, "*") {
		parts = append(parts, "Note: redacted content detected by the transcription content-safety filter")
	}

	return strings.Join(parts, " | ")
}

func sentimentDescription(score float64) string {
	switch {
	case score < -0.5:
		return "strongly negative"
	case score < -0.2:
		return "negative"
	case score > 0.5:
		return "strongly positive"
	case score > 0.2:
		return "positive"
	default:
		return "neutral"
	}
}

func categoryRationale(category domain.EmotionCategory) string {
	switch category {
	case domain.Transformative:
		return "Shows learning or growth from difficult experiences"
	case domain.Ambivalent:
		return "Contains mixed or contradictory emotions"
	case domain.ReflectiveNeutral:
		return "Demonstrates thoughtful contemplation without strong emotional charge"
	case domain.Hope:
		return "Expresses future-oriented positivity or aspirations"
	case domain.Sorrow:
		return "Focuses on grief, loss, or regret"
	}
	return ""
}

func topScoresSummary(scores map[domain.EmotionCategory]float64, n int) string {
	cats := domain.Categories()
	sort.SliceStable(cats, func(i, j int) bool {
		return scores[cats[i]] > scores[cats[j]]
	})
	if len(cats) > n {
		cats = cats[:n]
	}
	entries := make([]string, 0, len(cats))
	for _, cat := range cats {
		entries = append(entries, fmt.Sprintf("%s: %.2f", cat, scores[cat]))
	}
	return strings.Join(entries, ", ")
}

func keyPatternsSummary(matches []domain.MatchedPattern, category domain.EmotionCategory, n int) string {
	var own []domain.MatchedPattern
	for _, m := range matches {
		if m.Category == category {
			own = append(own, m)
		}
	}
	if len(own) == 0 {
		return ""
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].Score > own[j].Score })
	if len(own) > n {
		own = own[:n]
	}
	entries := make([]string, 0, len(own))
	for _, m := range own {
		entries = append(entries, fmt.Sprintf("%s (%.2f)", m.Description, m.Score))
	}
	return strings.Join(entries, "; ")
}

func hasCategory(matches []domain.MatchedPattern, cat domain.EmotionCategory) bool {
	for _, m := range matches {
		if m.Category == cat {
			return true
		}
	}
	return false
}
