package rulebook

import (
	"fmt"
	"regexp"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

const maxValueTextLen = 255

// CreateRuleInput holds the parameters for authoring a rule directly.
type CreateRuleInput struct {
	Pattern   string
	Kind      domain.MatchKind
	Field     domain.LabelField
	ValueText string
	Active    *bool
}

// Validate checks all fields and collects all errors. Regex patterns are
// compiled here so a broken pattern is rejected at creation instead of
// silently never matching.
func (i *CreateRuleInput) Validate() error {
	var errs []domain.FieldError

	if i.Pattern == "" {
		errs = append(errs, domain.FieldError{Field: "pattern", Message: "required"})
	} else if len([]rune(i.Pattern)) > domain.MaxRulePatternLen {
		errs = append(errs, domain.FieldError{Field: "pattern", Message: fmt.Sprintf("too long (max %d)", domain.MaxRulePatternLen)})
	}

	if i.Kind != "" && !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be contains, regex or glob"})
	}
	if i.Kind == domain.MatchKindRegex && i.Pattern != "" {
		if _, err := regexp.Compile("(?i)" + i.Pattern); err != nil {
			errs = append(errs, domain.FieldError{Field: "pattern", Message: "invalid regular expression"})
		}
	}

	if !i.Field.IsValid() {
		errs = append(errs, domain.FieldError{Field: "field", Message: "must be client, project or task"})
	}

	if i.ValueText == "" {
		errs = append(errs, domain.FieldError{Field: "value_text", Message: "required"})
	} else if len([]rune(i.ValueText)) > maxValueTextLen {
		errs = append(errs, domain.FieldError{Field: "value_text", Message: fmt.Sprintf("too long (max %d)", maxValueTextLen)})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
