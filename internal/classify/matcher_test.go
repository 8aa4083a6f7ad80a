package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pejman93/echopulse/internal/domain"
)

func matchesFor(t *testing.T, text string, cat domain.EmotionCategory) []domain.MatchedPattern {
	t.Helper()
	var out []domain.MatchedPattern
	for _, m := range Match(text, DefaultLibrary()) {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

func TestMatch_BasicHopePattern(t *testing.T) {
	matches := matchesFor(t, "i will achieve my dream", domain.Hope)

	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, m.Weight, m.Score, "no modifier should apply: %s", m.Description)
	}
}

func TestMatch_NegationFlipsSign(t *testing.T) {
	matches := matchesFor(t, "i will not give up", domain.Hope)

	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, -m.Weight, m.Score, "negated match should flip sign: %s", m.Description)
	}
}

func TestMatch_IntensifierScalesScore(t *testing.T) {
	matches := matchesFor(t, "i am very happy", domain.Hope)

	require.NotEmpty(t, matches)
	found := false
	for _, m := range matches {
		if m.Description == "Explicit happiness" {
			found = true
			assert.InDelta(t, 0.9*1.5, m.Score, 1e-9)
		}
	}
	assert.True(t, found, "expected the happiness rule to fire")
}

func TestMatch_EveryOccurrenceCounts(t *testing.T) {
	matches := matchesFor(t, "hope is hope because hope", domain.Hope)

	count := 0
	for _, m := range matches {
		if m.Description == "Future-oriented language" {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestMatch_CaseInsensitive(t *testing.T) {
	upper := matchesFor(t, "I AM SO SAD", domain.Sorrow)
	lower := matchesFor(t, "i am so sad", domain.Sorrow)
	assert.Equal(t, lower, upper)
}

func TestMatch_NoPatterns(t *testing.T) {
	matches := Match("the quick brown fox", DefaultLibrary())
	assert.Empty(t, matches)
}

func TestMatch_ModifierWindowCountsCharacters(t *testing.T) {
	// "not" sits exactly 20 characters before the match but 35 bytes away;
	// the window is measured in characters, so the sign still flips.
	text := "not ééééééééééééééé happy"
	matches := matchesFor(t, text, domain.Hope)

	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Negative(t, m.Score, "negation within the character window must apply: %s", m.Description)
	}
}

func TestMatch_ModifierWindowIsBounded(t *testing.T) {
	// "not" sits more than 20 characters before the match, so the sign
	// must not flip.
	text := "not aaaaaaaaaaaaaaaaaaaaaaaaa i feel happy"
	matches := matchesFor(t, text, domain.Hope)

	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Positive(t, m.Score, "distant negation must not apply: %s", m.Description)
	}
}
