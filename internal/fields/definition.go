package fields

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
)

// Definition is the canonical schema for one custom product field. It is
// stored on the product as JSON and copied verbatim into every snapshot, so
// its wire shape is the import/export contract.
type Definition struct {
	Label                   string               `json:"label"`
	Type                    enums.FieldType      `json:"type"`
	Required                bool                 `json:"required"`
	Editable                bool                 `json:"editable"`
	Autofocus               bool                 `json:"autofocus"`
	Placeholder             string               `json:"placeholder,omitempty"`
	HelpText                string               `json:"help_text,omitempty"`
	Default                 string               `json:"default,omitempty"`
	MinLength               int                  `json:"min_length,omitempty"`
	MaxLength               int                  `json:"max_length,omitempty"`
	Rows                    int                  `json:"rows,omitempty"`
	Cols                    int                  `json:"cols,omitempty"`
	Options                 []Option             `json:"options,omitempty"`
	AdjustPrice             bool                 `json:"adjust_price"`
	PriceAdjustmentType     enums.AdjustmentType `json:"price_adjustment_type,omitempty"`
	PriceAdjustmentValue    decimal.Decimal      `json:"price_adjustment_value"`
	ConditionalLogicEnabled bool                 `json:"conditional_logic_enabled"`
	ConditionalRules        []RuleGroup          `json:"conditional_rules,omitempty"`
}

// Key returns the derived correlation key for this definition.
func (d Definition) Key() string {
	return DeriveKey(d.Label)
}

// Option is one selectable value of a choice field.
type Option struct {
	Label                string               `json:"label"`
	Value                string               `json:"value"`
	PriceAdjustmentType  enums.AdjustmentType `json:"price_adjustment_type,omitempty"`
	PriceAdjustmentValue decimal.Decimal      `json:"price_adjustment_value"`
	IsDefault            bool                 `json:"is_default"`
}

// RuleGroup is one OR-branch of a field's conditional logic; the field is
// active when any group has all of its rules satisfied.
type RuleGroup struct {
	Rules []Rule `json:"rules"`
}

// Rule is one AND-term inside a RuleGroup. A rule whose Field or Operator is
// empty is inert and always counts as satisfied, so a half-filled rule row
// never blocks its group.
type Rule struct {
	Field    string             `json:"field"`
	Operator enums.RuleOperator `json:"operator"`
	Value    string             `json:"value"`
}

// DeriveKey converts a human-facing label into the stable machine key used to
// correlate definitions, submissions, and snapshots. It must stay identical at
// every stage or correlation silently breaks.
func DeriveKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(key)
}

// NormalizeAll sanitizes a raw definition set and drops entries that cannot
// serve as both caption and key. Dropped definitions are a schema concern,
// never surfaced to shoppers.
func NormalizeAll(raw []Definition) []Definition {
	out := make([]Definition, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, def := range raw {
		normalized, ok := normalizeDefinition(def)
		if !ok {
			continue
		}
		key := normalized.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func normalizeDefinition(d Definition) (Definition, bool) {
	d.Label = strings.TrimSpace(StripTags(d.Label))
	if d.Label == "" {
		return Definition{}, false
	}
	if !d.Type.IsValid() {
		return Definition{}, false
	}

	d.Placeholder = strings.TrimSpace(StripTags(d.Placeholder))
	d.HelpText = strings.TrimSpace(StripTags(d.HelpText))
	d.Default = strings.TrimSpace(StripTags(d.Default))

	d.MinLength = clampNonNegative(d.MinLength)
	d.MaxLength = clampNonNegative(d.MaxLength)
	d.Rows = clampNonNegative(d.Rows)
	d.Cols = clampNonNegative(d.Cols)

	if d.Type.IsChoice() {
		d.Options = normalizeOptions(d.Options)
		if len(d.Options) == 0 {
			return Definition{}, false
		}
	} else {
		d.Options = nil
	}

	if d.AdjustPrice {
		if !d.PriceAdjustmentType.IsValid() {
			d.PriceAdjustmentType = enums.AdjustmentTypeFixed
		}
	} else {
		d.PriceAdjustmentType = ""
		d.PriceAdjustmentValue = decimal.Zero
	}

	d.ConditionalRules = normalizeRuleGroups(d.ConditionalRules)

	return d, true
}

func normalizeOptions(raw []Option) []Option {
	out := make([]Option, 0, len(raw))
	for _, opt := range raw {
		opt.Label = strings.TrimSpace(StripTags(opt.Label))
		opt.Value = strings.TrimSpace(StripTags(opt.Value))
		if opt.Value == "" {
			opt.Value = opt.Label
		}
		if opt.Label == "" && opt.Value == "" {
			continue
		}
		if !opt.PriceAdjustmentType.IsValid() {
			opt.PriceAdjustmentType = ""
		}
		out = append(out, opt)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeRuleGroups(raw []RuleGroup) []RuleGroup {
	if len(raw) == 0 {
		return nil
	}
	out := make([]RuleGroup, 0, len(raw))
	for _, group := range raw {
		rules := make([]Rule, 0, len(group.Rules))
		for _, rule := range group.Rules {
			rule.Field = strings.TrimSpace(StripTags(rule.Field))
			rule.Value = strings.TrimSpace(StripTags(rule.Value))
			if !rule.Operator.IsValid() {
				// unknown operators become inert rather than failing the group
				rule.Operator = ""
			}
			rules = append(rules, rule)
		}
		out = append(out, RuleGroup{Rules: rules})
	}
	return out
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
