package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchKind selects how a rule's pattern is tested against a block.
type MatchKind string

const (
	MatchKindContains MatchKind = "contains"
	MatchKindRegex    MatchKind = "regex"
	MatchKindGlob     MatchKind = "glob"
)

func (k MatchKind) String() string { return string(k) }

func (k MatchKind) IsValid() bool {
	switch k {
	case MatchKindContains, MatchKindRegex, MatchKindGlob:
		return true
	}
	return false
}

// LabelField is the classification dimension a rule or suggestion targets.
type LabelField string

const (
	LabelFieldClient  LabelField = "client"
	LabelFieldProject LabelField = "project"
	LabelFieldTask    LabelField = "task"
)

func (f LabelField) String() string { return string(f) }

func (f LabelField) IsValid() bool {
	switch f {
	case LabelFieldClient, LabelFieldProject, LabelFieldTask:
		return true
	}
	return false
}

// MaxRulePatternLen caps patterns derived from block metadata.
const MaxRulePatternLen = 200

// Rule is an admin-authored pattern that maps block text to a candidate
// classification value. Rules are evaluated in creation order and are never
// auto-deleted; retiring a rule means setting Active to false.
type Rule struct {
	ID        uuid.UUID
	OrgID     *uuid.UUID
	Pattern   string
	Kind      MatchKind
	Field     LabelField
	ValueText string
	Active    bool
	CreatedAt time.Time
}
