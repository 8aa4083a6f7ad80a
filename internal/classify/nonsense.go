package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Short words that are legitimate single-word utterances.
var commonShortWords = map[string]struct{}{
	"yes": {}, "no": {}, "ok": {}, "hi": {}, "bye": {}, "wow": {},
	"oh": {}, "ah": {}, "um": {}, "uh": {}, "you": {},
}

// Shapes that indicate transcription noise rather than speech.
var noiseShapes = []*regexp.Regexp{
	regexp.MustCompile(`^[a-z]{1,3}\.{3,}$`),            // trailing dots like "a..."
	regexp.MustCompile(`^[a-z\s]{1,10}\.$`),             // very short, ends in a bare period
	regexp.MustCompile(`^[^a-zA-Z\s]*$`),                // symbols only
	regexp.MustCompile(`^[a-z]\s[a-z]\s[a-z](\s[a-z])*$`), // isolated single letters
}

// IsLikelyNonsensical reports whether text looks like transcription noise:
// a lone unrecognized short word, heavy token repetition, a known noise
// shape, or mostly non-alphabetic content.
func IsLikelyNonsensical(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(lower)

	if len(words) == 1 && utf8.RuneCountInString(lower) < 4 {
		if _, ok := commonShortWords[lower]; !ok {
			return true
		}
	}

	if len(words) >= 3 {
		counts := make(map[string]int, len(words))
		for _, w := range words {
			counts[w]++
		}

		if len(counts) <= 2 && len(words) >= 4 {
			return true
		}

		if len(counts) <= 3 && len(words) >= 6 {
			maxRepetitions := 0
			for _, n := range counts {
				if n > maxRepetitions {
					maxRepetitions = n
				}
			}
			if maxRepetitions >= 3 {
				return true
			}
		}
	}

	for _, shape := range noiseShapes {
		if shape.MatchString(lower) {
			return true
		}
	}

	nonAlpha := 0
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			nonAlpha++
		}
	}
	if len(text) > 0 && float64(nonAlpha)/float64(len([]rune(text))) > 0.5 {
		return true
	}

	return false
}
