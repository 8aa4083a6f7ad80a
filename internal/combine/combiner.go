package combine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pejman93/echopulse/internal/domain"
	"github.com/pejman93/echopulse/internal/metrics"
)

const (
	// The transformer source is faster and more consistent, so it carries
	// the larger trust weight in blended strategies.
	defaultPrimaryWeight = 0.6

	confidenceCeiling = 0.95

	agreementBonus        = 0.1
	disagreementDampening = 0.8
	primaryDisagreeFactor = 0.9
	singleSourceBoost     = 1.1
)

// Combiner merges two analyzer verdicts. It is stateless; one instance
// serves all requests concurrently.
type Combiner struct {
	primaryWeight float64
	clock         clockwork.Clock
}

// New creates a Combiner. primaryWeight is the trust weight of the
// transformer source in (0, 1); the LLM source gets the complement. Zero
// selects the default 0.6/0.4 split.
func New(clock clockwork.Clock, primaryWeight float64) *Combiner {
	if primaryWeight <= 0 || primaryWeight >= 1 {
		primaryWeight = defaultPrimaryWeight
	}
	return &Combiner{primaryWeight: primaryWeight, clock: clock}
}

// Combine reconciles the transformer and LLM verdicts under the given
// strategy. A missing verdict yields the surviving one unchanged, tagged
// single-source, with a modest confidence boost since no corroboration was
// attempted. Both verdicts missing is a caller error.
func (c *Combiner) Combine(transformer, llm *domain.SourceResult, strategy Strategy) (domain.CombinationResult, error) {
	if transformer == nil && llm == nil {
		return domain.CombinationResult{}, domain.ErrNoSources
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return domain.CombinationResult{}, err
	}

	if transformer == nil || llm == nil {
		survivor := transformer
		if survivor == nil {
			survivor = llm
		}
		metrics.CombinationsTotal.WithLabelValues(string(strategy), "single_source").Inc()

		result := c.newResult(*survivor, strategy, transformer, llm)
		result.Confidence = capConfidence(survivor.Confidence * singleSourceBoost)
		result.AnalysisSource = "single_source"
		result.Explanation = fmt.Sprintf("Single-source result (%s, no corroboration attempted). %s",
			survivor.Category, survivor.Explanation)
		return result, nil
	}

	var result domain.CombinationResult
	switch strategy {
	case HighestConfidence:
		result = c.highestConfidence(*transformer, *llm)
	case Consensus:
		result = c.consensus(*transformer, *llm)
	case TransformerPrimary:
		result = c.primaryWithAdjustment(*transformer, *llm, *transformer, "transformer_primary")
	case LLMPrimary:
		result = c.primaryWithAdjustment(*transformer, *llm, *llm, "llm_primary")
	default:
		result = c.weightedAverage(*transformer, *llm)
	}
	result.Strategy = string(strategy)

	outcome := "disagree"
	if transformer.Category == llm.Category {
		outcome = "agree"
	}
	metrics.CombinationsTotal.WithLabelValues(string(strategy), outcome).Inc()

	return result, nil
}

func (c *Combiner) weightedAverage(transformer, llm domain.SourceResult) domain.CombinationResult {
	tw := c.primaryWeight
	lw := 1 - c.primaryWeight

	result := c.newResult(transformer, WeightedAverage, &transformer, &llm)
	result.Score = transformer.Score*tw + llm.Score*lw
	result.Confidence = transformer.Confidence*tw + llm.Confidence*lw

	// The more confident source decides the category; ties favor the
	// transformer.
	primarySource := "transformer"
	result.Category = transformer.Category
	if llm.Confidence > transformer.Confidence {
		primarySource = "llm"
		result.Category = llm.Category
	}

	result.AnalysisSource = "combined"
	result.Explanation = fmt.Sprintf(
		"Combined analysis (primary: %s). Transformer: %s (%.1f%%), LLM: %s (%.1f%%)",
		primarySource,
		transformer.Category, transformer.Confidence*100,
		llm.Category, llm.Confidence*100,
	)
	return result
}

func (c *Combiner) highestConfidence(transformer, llm domain.SourceResult) domain.CombinationResult {
	chosen, source := transformer, "transformer_confident"
	if llm.Confidence > transformer.Confidence {
		chosen, source = llm, "llm_confident"
	}

	result := c.newResult(chosen, HighestConfidence, &transformer, &llm)
	result.AnalysisSource = source
	return result
}

func (c *Combiner) consensus(transformer, llm domain.SourceResult) domain.CombinationResult {
	if transformer.Category == llm.Category {
		result := c.newResult(transformer, Consensus, &transformer, &llm)
		result.Score = (transformer.Score + llm.Score) / 2
		result.Confidence = capConfidence((transformer.Confidence+llm.Confidence)/2 + agreementBonus)
		result.AnalysisSource = "consensus"
		result.Agreement = boolPtr(true)
		result.Explanation = fmt.Sprintf("Strong consensus between analyses on %s", transformer.Category)
		return result
	}

	result := c.weightedAverage(transformer, llm)
	result.Confidence *= disagreementDampening
	result.AnalysisSource = "consensus_fallback"
	result.Agreement = boolPtr(false)
	result.Explanation += " (analyses disagreed, confidence reduced)"
	return result
}

func (c *Combiner) primaryWithAdjustment(transformer, llm, primary domain.SourceResult, source string) domain.CombinationResult {
	result := c.newResult(primary, Strategy(source), &transformer, &llm)
	result.AnalysisSource = source

	if transformer.Category == llm.Category {
		result.Confidence = capConfidence(primary.Confidence + agreementBonus)
		result.Agreement = boolPtr(true)
	} else {
		result.Confidence = primary.Confidence * primaryDisagreeFactor
		result.Agreement = boolPtr(false)
	}
	return result
}

func (c *Combiner) newResult(base domain.SourceResult, strategy Strategy, transformer, llm *domain.SourceResult) domain.CombinationResult {
	return domain.CombinationResult{
		ID:          uuid.New(),
		Category:    base.Category,
		Confidence:  base.Confidence,
		Score:       base.Score,
		Explanation: base.Explanation,
		Timestamp:   c.clock.Now(),
		Strategy:    string(strategy),
		Transformer: transformer,
		LLM:         llm,
	}
}

func capConfidence(v float64) float64 {
	if v > confidenceCeiling {
		return confidenceCeiling
	}
	return v
}

func boolPtr(b bool) *bool {
	return &b
}
