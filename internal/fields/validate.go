package fields

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
)

// ValidationCode classifies a rejected field value.
type ValidationCode string

const (
	ValidationRequiredMissing ValidationCode = "required_missing"
	ValidationInvalidFormat   ValidationCode = "invalid_format"
	ValidationInvalidOption   ValidationCode = "invalid_option"
)

// ValidationError describes one rejected field value. It is user-facing.
type ValidationError struct {
	FieldKey string
	Label    string
	Code     ValidationCode
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldKey, e.Message)
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
}

// Validate checks one submitted value against its definition and returns the
// sanitized value. Callers gate on IsActive first; hidden fields are never
// validated here.
func Validate(def Definition, value Value) (Value, *ValidationError) {
	if value.IsEmpty() {
		if def.Required {
			return nil, fail(def, ValidationRequiredMissing, fmt.Sprintf("%s is required", def.Label))
		}
		return nil, nil
	}

	switch def.Type {
	case enums.FieldTypeText, enums.FieldTypeLongText, enums.FieldTypeEmail:
		return validateText(def, value)
	case enums.FieldTypeNumber:
		return validateNumber(def, value)
	case enums.FieldTypeDate:
		return validateDate(def, value)
	case enums.FieldTypeYesNo:
		return validateYesNo(def, value)
	case enums.FieldTypeRadio, enums.FieldTypeCheckbox, enums.FieldTypeSelect:
		return validateChoice(def, value)
	default:
		return nil, fail(def, ValidationInvalidFormat, fmt.Sprintf("%s has an unsupported type", def.Label))
	}
}

func validateText(def Definition, value Value) (Value, *ValidationError) {
	raw := strings.TrimSpace(value.First())

	if def.Type == enums.FieldTypeEmail {
		if _, err := mail.ParseAddress(raw); err != nil {
			return nil, fail(def, ValidationInvalidFormat, fmt.Sprintf("%s must be a valid email address", def.Label))
		}
	}

	var sanitized string
	if def.Type == enums.FieldTypeLongText {
		sanitized = strings.TrimSpace(SanitizeMarkup(raw))
	} else {
		sanitized = strings.TrimSpace(StripTags(raw))
	}

	length := len([]rune(sanitized))
	if def.MinLength > 0 && length < def.MinLength {
		return nil, fail(def, ValidationInvalidFormat, fmt.Sprintf("%s must be at least %d characters", def.Label, def.MinLength))
	}
	if def.MaxLength > 0 && length > def.MaxLength {
		return nil, fail(def, ValidationInvalidFormat, fmt.Sprintf("%s must be at most %d characters", def.Label, def.MaxLength))
	}
	return NewValue(sanitized), nil
}

func validateNumber(def Definition, value Value) (Value, *ValidationError) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(value.First()))
	if err != nil {
		return nil, fail(def, ValidationInvalidFormat, fmt.Sprintf("%s must be a number", def.Label))
	}
	return NewValue(parsed.String()), nil
}

func validateDate(def Definition, value Value) (Value, *ValidationError) {
	raw := strings.TrimSpace(value.First())
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return NewValue(parsed.Format("2006-01-02")), nil
		}
	}
	return nil, fail(def, ValidationInvalidFormat, fmt.Sprintf("%s must be a valid date", def.Label))
}

func validateYesNo(def Definition, value Value) (Value, *ValidationError) {
	normalized := strings.ToLower(strings.TrimSpace(value.First()))
	if normalized != "yes" && normalized != "no" {
		return nil, fail(def, ValidationInvalidFormat, fmt.Sprintf("%s must be yes or no", def.Label))
	}
	return NewValue(normalized), nil
}

func validateChoice(def Definition, value Value) (Value, *ValidationError) {
	allowed := make(map[string]struct{}, len(def.Options))
	for _, opt := range def.Options {
		allowed[opt.Value] = struct{}{}
	}
	sanitized := make(Value, 0, len(value))
	for _, entry := range value {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		if _, ok := allowed[trimmed]; !ok {
			return nil, fail(def, ValidationInvalidOption, fmt.Sprintf("%s does not allow %q", def.Label, trimmed))
		}
		sanitized = append(sanitized, trimmed)
	}
	if len(sanitized) == 0 {
		return nil, nil
	}
	return sanitized, nil
}

func fail(def Definition, code ValidationCode, message string) *ValidationError {
	return &ValidationError{
		FieldKey: def.Key(),
		Label:    def.Label,
		Code:     code,
		Message:  message,
	}
}

// ValidateSubmission runs every currently active field through Validate and
// returns the sanitized value set. With failFast false, every failure is
// collected into one combined error so authoring callers see all problems at
// once; with failFast true the first failure aborts, which is the
// order-mutation discipline (no partial writes).
func ValidateSubmission(defs []Definition, values Values, failFast bool) (Values, error) {
	sanitized := make(Values, len(defs))
	var combined error
	for _, def := range defs {
		if !IsActive(def, values) {
			continue
		}
		clean, verr := Validate(def, values.Get(def.Key()))
		if verr != nil {
			if failFast {
				return nil, verr
			}
			combined = multierr.Append(combined, verr)
			continue
		}
		if !clean.IsEmpty() {
			sanitized[def.Key()] = clean
		}
	}
	if combined != nil {
		return nil, combined
	}
	return sanitized, nil
}

// ValidationErrorsOf unwraps the combined error produced by ValidateSubmission
// back into its per-field failures.
func ValidationErrorsOf(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var out []*ValidationError
	for _, e := range multierr.Errors(err) {
		if verr, ok := e.(*ValidationError); ok {
			out = append(out, verr)
		}
	}
	return out
}
