// Package editform implements a change-tracking controller for an
// editable record: it keeps a working copy next to an immutable baseline,
// maintains the set of fields that diverge from it, gates changes to
// critical fields behind an explicit acknowledgement, and validates every
// field against a declarative rule table before a save is staged.
package editform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rule is the validation contract for a single field. Checks run in a
// fixed order and the first violation wins: required, min length, max
// length, pattern, numeric range, cross-field match. An empty value on a
// non-required field passes without further checks.
type Rule struct {
	Required bool
	MinLen   int
	MaxLen   int

	// Pattern constrains the value's shape; Message replaces the generic
	// pattern reason when set.
	Pattern *regexp.Regexp
	Message string

	// Min/Max bound a numeric field. Setting either requires the value to
	// parse as an integer.
	Min *int
	Max *int

	// MatchField names another field whose value must be equal, e.g. a
	// password confirmation.
	MatchField string
}

// FieldError reports the first violated rule for one field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors aggregates per-field failures from ValidateAll.
type ValidationErrors []*FieldError

func (e ValidationErrors) Error() string {
	reasons := make([]string, 0, len(e))
	for _, fe := range e {
		reasons = append(reasons, fe.Error())
	}
	return strings.Join(reasons, "; ")
}

// intPtr is a convenience for building numeric-range rules.
func intPtr(n int) *int { return &n }

// check evaluates the rule against value, using lookup to resolve
// cross-field references. Values are compared trimmed.
func (r Rule) check(field, value string, lookup func(string) string) *FieldError {
	v := strings.TrimSpace(value)

	if v == "" {
		if r.Required {
			return &FieldError{Field: field, Reason: "value is required"}
		}
		return nil
	}

	if r.MinLen > 0 && len([]rune(v)) < r.MinLen {
		return &FieldError{Field: field, Reason: fmt.Sprintf("must be at least %d characters", r.MinLen)}
	}
	if r.MaxLen > 0 && len([]rune(v)) > r.MaxLen {
		return &FieldError{Field: field, Reason: fmt.Sprintf("must not exceed %d characters", r.MaxLen)}
	}

	if r.Pattern != nil && !r.Pattern.MatchString(v) {
		reason := r.Message
		if reason == "" {
			reason = "invalid format"
		}
		return &FieldError{Field: field, Reason: reason}
	}

	if r.Min != nil || r.Max != nil {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &FieldError{Field: field, Reason: "must be a number"}
		}
		if r.Min != nil && n < *r.Min {
			return &FieldError{Field: field, Reason: fmt.Sprintf("must be at least %d", *r.Min)}
		}
		if r.Max != nil && n > *r.Max {
			return &FieldError{Field: field, Reason: fmt.Sprintf("must not exceed %d", *r.Max)}
		}
	}

	if r.MatchField != "" && v != strings.TrimSpace(lookup(r.MatchField)) {
		return &FieldError{Field: field, Reason: fmt.Sprintf("must match %s", r.MatchField)}
	}

	return nil
}
