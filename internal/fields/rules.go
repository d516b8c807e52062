package fields

import (
	"strconv"
	"strings"

	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
)

// IsActive decides whether a field is currently shown and enforced given the
// full set of submitted values. It is pure over the definition's rule data so
// the same rule JSON can gate persistence server-side and visibility
// client-side without reimplementing the logic.
//
// Groups combine with OR; rules inside a group combine with AND.
func IsActive(def Definition, values Values) bool {
	if !def.ConditionalLogicEnabled || len(def.ConditionalRules) == 0 {
		return true
	}
	for _, group := range def.ConditionalRules {
		if groupSatisfied(group, values) {
			return true
		}
	}
	return false
}

func groupSatisfied(group RuleGroup, values Values) bool {
	for _, rule := range group.Rules {
		if !ruleSatisfied(rule, values) {
			return false
		}
	}
	return true
}

func ruleSatisfied(rule Rule, values Values) bool {
	// inert rules always pass so a half-filled rule row never blocks its group
	if rule.Field == "" || rule.Operator == "" {
		return true
	}

	actual := values.Get(DeriveKey(rule.Field))

	switch rule.Operator {
	case enums.RuleOperatorEquals:
		return actual.Join() == rule.Value
	case enums.RuleOperatorNotEquals:
		return actual.Join() != rule.Value
	case enums.RuleOperatorGreaterThan:
		return numeric(actual.Join()) > numeric(rule.Value)
	case enums.RuleOperatorLessThan:
		return numeric(actual.Join()) < numeric(rule.Value)
	case enums.RuleOperatorFieldEmpty:
		return actual.IsEmpty()
	case enums.RuleOperatorFieldNotEmpty:
		return !actual.IsEmpty()
	default:
		return true
	}
}

// numeric parses a comparison operand. Non-numeric input compares as 0; this
// is a documented edge of the rule language, not an error.
func numeric(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
