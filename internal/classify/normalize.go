package classify

import (
	"regexp"
	"strings"
)

type rewriteRule struct {
	expr *regexp.Regexp
	repl string
}

// Transcription artifacts observed in speech-to-text output. The utterances
// arrive from a transcription service, so misheard prepositions and informal
// contractions are repaired before pattern matching.
var transcriptionFixes = []rewriteRule{
	{regexp.MustCompile(`\bof the past\b`), "over the past"},
	{regexp.MustCompile(`\bof my\b`), "over my"},
	{regexp.MustCompile(`\bof time\b`), "over time"},
	{regexp.MustCompile(`\bthru\b`), "through"},
	{regexp.MustCompile(`\bu\b`), "you"},
	{regexp.MustCompile(`\bur\b`), "your"},
	{regexp.MustCompile(`\bcuz\b`), "because"},
}

// Past-tense forms of reflective verbs collapse to present tense so tense
// variation does not fragment pattern coverage.
var tenseNormalizations = []rewriteRule{
	{regexp.MustCompile(`\brealized\b`), "realize"},
	{regexp.MustCompile(`\blearned\b`), "learn"},
	{regexp.MustCompile(`\bunderstood\b`), "understand"},
	{regexp.MustCompile(`\brecognized\b`), "recognize"},
	{regexp.MustCompile(`\bdiscovered\b`), "discover"},
	{regexp.MustCompile(`\bfound\b`), "find"},
	{regexp.MustCompile(`\bthought\b`), "think"},
	{regexp.MustCompile(`\bfelt\b`), "feel"},
	{regexp.MustCompile(`\bsaw\b`), "see"},
	{regexp.MustCompile(`\bknew\b`), "know"},
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lower-cases text and applies transcription repairs, tense
// collapsing, and whitespace normalization so minor phrasing differences do
// not change classification.
func Normalize(text string) string {
	normalized := strings.ToLower(text)
	for _, r := range transcriptionFixes {
		normalized = r.expr.ReplaceAllString(normalized, r.repl)
	}
	for _, r := range tenseNormalizations {
		normalized = r.expr.ReplaceAllString(normalized, r.repl)
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(normalized, " "))
}
