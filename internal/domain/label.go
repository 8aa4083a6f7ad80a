package domain

// SentimentLabel is the five-bucket label derived from a sentiment score.
// It describes score polarity, not the emotion category.
type SentimentLabel string

const (
	LabelVeryPositive SentimentLabel = "very_positive"
	LabelPositive     SentimentLabel = "positive"
	LabelNeutral      SentimentLabel = "neutral"
	LabelNegative     SentimentLabel = "negative"
	LabelVeryNegative SentimentLabel = "very_negative"
)

// LabelForScore buckets a sentiment score in [-1, 1] into a SentimentLabel.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score >= 0.6:
		return LabelVeryPositive
	case score >= 0.2:
		return LabelPositive
	case score >= -0.1:
		return LabelNeutral
	case score >= -0.3:
		return LabelNegative
	default:
		return LabelVeryNegative
	}
}
