package classify

import (
	"strings"
	"unicode/utf8"

	"github.com/pejman93/echopulse/internal/domain"
)

// contextWindow is the number of characters inspected on each side of a
// pattern occurrence when deciding negation or intensification.
const contextWindow = 20

const (
	modifierNegated     = -1.0
	modifierNeutral     = 1.0
	modifierIntensified = 1.5
)

// Match scans text for every non-overlapping occurrence of every library
// pattern. Each occurrence contributes weight × context modifier: a window of
// ±20 characters containing a negation marker flips the sign, an intensifier
// scales it by 1.5. Matches are independent; overlapping evidence from
// multiple patterns is retained on purpose.
func Match(text string, lib *Library) []domain.MatchedPattern {
	lower := strings.ToLower(text)

	var matches []domain.MatchedPattern
	for _, p := range lib.Patterns() {
		for _, loc := range p.Expr.FindAllStringIndex(lower, -1) {
			window := surrounding(lower, loc[0], loc[1])
			matches = append(matches, domain.MatchedPattern{
				Description: p.Description,
				Category:    p.Category,
				Weight:      p.Weight,
				Score:       p.Weight * contextModifier(window),
			})
		}
	}
	return matches
}

// surrounding widens the [start, end) byte span by contextWindow characters
// on each side, never splitting a multibyte rune.
func surrounding(text string, start, end int) string {
	from := start
	for i := 0; i < contextWindow; i++ {
		if from == 0 {
			break
		}
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for i := 0; i < contextWindow; i++ {
		if to == len(text) {
			break
		}
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}
	return text[from:to]
}

func contextModifier(window string) float64 {
	if strings.Contains(window, "not") || strings.Contains(window, "never") {
		return modifierNegated
	}
	if strings.Contains(window, "very") || strings.Contains(window, "really") {
		return modifierIntensified
	}
	return modifierNeutral
}
