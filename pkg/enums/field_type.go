package enums

import "fmt"

// FieldType identifies the widget kind of a custom product field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeLongText FieldType = "long_text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeYesNo    FieldType = "yes_no"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
)

var validFieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeLongText,
	FieldTypeEmail,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeYesNo,
	FieldTypeRadio,
	FieldTypeCheckbox,
	FieldTypeSelect,
}

// String implements fmt.Stringer.
func (f FieldType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FieldType.
func (f FieldType) IsValid() bool {
	for _, candidate := range validFieldTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// IsChoice reports whether the field selects from a configured option list.
func (f FieldType) IsChoice() bool {
	switch f {
	case FieldTypeRadio, FieldTypeCheckbox, FieldTypeSelect:
		return true
	default:
		return false
	}
}

// IsTextLike reports whether min/max length constraints apply.
func (f FieldType) IsTextLike() bool {
	switch f {
	case FieldTypeText, FieldTypeLongText, FieldTypeEmail:
		return true
	default:
		return false
	}
}

// AllowsMultiple reports whether more than one value may be submitted.
func (f FieldType) AllowsMultiple() bool {
	return f == FieldTypeCheckbox
}

// ParseFieldType converts raw input into a FieldType.
func ParseFieldType(value string) (FieldType, error) {
	for _, candidate := range validFieldTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid field type %q", value)
}
