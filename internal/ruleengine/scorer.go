package ruleengine

import "github.com/tracklight/tracklight-backend/internal/domain"

// RuleConfidence is the fixed confidence emitted for rule-based matches.
// It signals "deterministic rule, not a learned model" rather than any
// measure of match quality.
const RuleConfidence = 0.85

// Scorer produces a confidence for a rule hit on a block. It exists so a
// future statistical scorer can replace the constant without changing the
// engine's contract.
type Scorer interface {
	Score(rule domain.Rule, block domain.Block) float64
}

// ConstantScorer returns the same confidence for every hit.
type ConstantScorer struct {
	Confidence float64
}

func (s ConstantScorer) Score(domain.Rule, domain.Block) float64 {
	return s.Confidence
}
