// Package ruleengine evaluates admin-defined pattern rules against a block's
// text surface and emits candidate classifications.
package ruleengine

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// Match is one rule hit: a candidate value for a classification field.
type Match struct {
	Field      domain.LabelField
	ValueText  string
	Confidence float64
	Source     domain.SuggestionSource
}

// Engine applies rules to blocks. Confidence comes from the configured
// Scorer; match order is rule order and each rule contributes at most one
// match.
type Engine struct {
	scorer Scorer
}

// New creates an Engine. A nil scorer falls back to the constant rule
// confidence.
func New(scorer Scorer) *Engine {
	if scorer == nil {
		scorer = ConstantScorer{Confidence: RuleConfidence}
	}
	return &Engine{scorer: scorer}
}

// Apply evaluates rules against the block in order. Inactive rules are
// skipped. The returned slice preserves rule order; no secondary ranking is
// applied.
func (e *Engine) Apply(block domain.Block, rules []domain.Rule) []Match {
	surface := strings.ToLower(block.Title + " " + block.URL + " " + block.FilePath)

	var out []Match
	for _, r := range rules {
		if !r.Active {
			continue
		}
		if !matches(r, block, surface) {
			continue
		}
		out = append(out, Match{
			Field:      r.Field,
			ValueText:  r.ValueText,
			Confidence: e.scorer.Score(r, block),
			Source:     domain.SuggestionSourceRule,
		})
	}

	return out
}

// matches tests one rule. Patterns that fail to compile never match.
func matches(r domain.Rule, block domain.Block, surface string) bool {
	switch r.Kind {
	case domain.MatchKindContains:
		return strings.Contains(surface, strings.ToLower(r.Pattern))

	case domain.MatchKindRegex:
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(surface)

	case domain.MatchKindGlob:
		// Shell-style match on the raw (non-lowercased) url or file path.
		g, err := glob.Compile(r.Pattern)
		if err != nil {
			return false
		}
		// Empty strings go through the matcher too, so a bare "*"
		// matches a block with no url and no file path.
		return g.Match(block.URL) || g.Match(block.FilePath)
	}

	return false
}
