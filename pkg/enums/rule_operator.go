package enums

import "fmt"

// RuleOperator is the comparison applied by one conditional-visibility rule.
type RuleOperator string

const (
	RuleOperatorEquals        RuleOperator = "equals"
	RuleOperatorNotEquals     RuleOperator = "not_equals"
	RuleOperatorGreaterThan   RuleOperator = "greater_than"
	RuleOperatorLessThan      RuleOperator = "less_than"
	RuleOperatorFieldEmpty    RuleOperator = "field_is_empty"
	RuleOperatorFieldNotEmpty RuleOperator = "field_is_not_empty"
)

var validRuleOperators = []RuleOperator{
	RuleOperatorEquals,
	RuleOperatorNotEquals,
	RuleOperatorGreaterThan,
	RuleOperatorLessThan,
	RuleOperatorFieldEmpty,
	RuleOperatorFieldNotEmpty,
}

// String implements fmt.Stringer.
func (r RuleOperator) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RuleOperator.
func (r RuleOperator) IsValid() bool {
	for _, candidate := range validRuleOperators {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRuleOperator converts raw input into a RuleOperator.
func ParseRuleOperator(value string) (RuleOperator, error) {
	for _, candidate := range validRuleOperators {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rule operator %q", value)
}
