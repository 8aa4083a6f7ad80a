package combine

import (
	"fmt"

	"github.com/pejman93/echopulse/internal/domain"
)

// Strategy selects how two analyzer verdicts are reconciled.
type Strategy string

const (
	// WeightedAverage blends scores and confidences with fixed source trust
	// weights and takes the category from the more confident source.
	WeightedAverage Strategy = "weighted_average"
	// HighestConfidence adopts the more confident result verbatim.
	HighestConfidence Strategy = "highest_confidence"
	// Consensus averages on agreement and falls back to a confidence-damped
	// weighted average on disagreement.
	Consensus Strategy = "consensus"
	// TransformerPrimary takes the transformer verdict, nudging its
	// confidence by agreement with the LLM.
	TransformerPrimary Strategy = "transformer_primary"
	// LLMPrimary takes the LLM verdict, nudging its confidence by agreement
	// with the transformer.
	LLMPrimary Strategy = "llm_primary"
)

// ParseStrategy validates a strategy name from config or request input.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case WeightedAverage, HighestConfidence, Consensus, TransformerPrimary, LLMPrimary:
		return Strategy(name), nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, name)
}
