package domain

import (
	"time"

	"github.com/google/uuid"
)

// SuggestionSource tags where a suggestion came from.
type SuggestionSource string

const (
	SuggestionSourceRule SuggestionSource = "rule"
	SuggestionSourceML   SuggestionSource = "ml"
)

func (s SuggestionSource) String() string { return string(s) }

// MaxSuggestionsPerBlock caps how many rule hits are persisted per block.
const MaxSuggestionsPerBlock = 3

// Suggestion is a scored candidate classification attached to a block.
// Suggestions are owned by their block (cascade-delete) and fully recomputed
// on every request; they are never updated in place.
type Suggestion struct {
	ID         uuid.UUID
	BlockID    uuid.UUID
	Field      LabelField
	ValueText  string
	Confidence float64
	Source     SuggestionSource
	CreatedAt  time.Time
}
