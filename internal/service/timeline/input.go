package timeline

import (
	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// CreateRuleInput holds the optional rule derived from a labeling action.
// Pattern may be empty; it is then derived from the block (url, then file
// path, then title) and truncated to domain.MaxRulePatternLen.
type CreateRuleInput struct {
	Pattern   string
	Kind      domain.MatchKind
	Field     domain.LabelField
	ValueText string
}

// LabelBlockInput holds the parameters for labeling a block. Nil fields are
// left untouched; names are resolved against master data within the block's
// scope and never auto-created.
type LabelBlockInput struct {
	BlockID    uuid.UUID
	Client     *string
	Project    *string
	Task       *string
	Notes      *string
	CreateRule *CreateRuleInput
}

// Validate checks all fields and collects all errors.
func (i *LabelBlockInput) Validate() error {
	var errs []domain.FieldError

	if i.BlockID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "block_id", Message: "required"})
	}
	if i.Client != nil && *i.Client == "" {
		errs = append(errs, domain.FieldError{Field: "client", Message: "must not be empty"})
	}
	if i.Project != nil && *i.Project == "" {
		errs = append(errs, domain.FieldError{Field: "project", Message: "must not be empty"})
	}
	if i.Task != nil && *i.Task == "" {
		errs = append(errs, domain.FieldError{Field: "task", Message: "must not be empty"})
	}

	if r := i.CreateRule; r != nil {
		if r.Kind != "" && !r.Kind.IsValid() {
			errs = append(errs, domain.FieldError{Field: "create_rule.kind", Message: "must be contains, regex or glob"})
		}
		if !r.Field.IsValid() {
			errs = append(errs, domain.FieldError{Field: "create_rule.field", Message: "must be client, project or task"})
		}
		if r.ValueText == "" {
			errs = append(errs, domain.FieldError{Field: "create_rule.value_text", Message: "required"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
