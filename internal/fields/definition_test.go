package fields

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
)

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label string
		want  string
	}{
		{"Engraving Text", "engraving_text"},
		{"  Gift Wrap  ", "gift_wrap"},
		{"T-Shirt Size", "t_shirt_size"},
		{"UPPER", "upper"},
		{"already_keyed", "already_keyed"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := DeriveKey(tc.label); got != tc.want {
			t.Fatalf("DeriveKey(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestNormalizeAllDropsUnusable(t *testing.T) {
	t.Parallel()

	raw := []Definition{
		{Label: "Keep Me", Type: enums.FieldTypeText},
		{Label: "   ", Type: enums.FieldTypeText},
		{Label: "<b></b>", Type: enums.FieldTypeText},
		{Label: "Bad Type", Type: "carousel"},
		{Label: "Empty Choice", Type: enums.FieldTypeSelect},
	}

	out := NormalizeAll(raw)
	if len(out) != 1 {
		t.Fatalf("expected 1 surviving definition, got %d", len(out))
	}
	if out[0].Label != "Keep Me" {
		t.Fatalf("unexpected survivor: %+v", out[0])
	}
}

func TestNormalizeAllDeduplicatesByKey(t *testing.T) {
	t.Parallel()

	raw := []Definition{
		{Label: "Gift Wrap", Type: enums.FieldTypeText, Placeholder: "first"},
		{Label: "gift-wrap", Type: enums.FieldTypeText, Placeholder: "second"},
	}

	out := NormalizeAll(raw)
	if len(out) != 1 {
		t.Fatalf("expected duplicate key to collapse, got %d definitions", len(out))
	}
	if out[0].Placeholder != "first" {
		t.Fatalf("expected first occurrence to win, got %+v", out[0])
	}
}

func TestNormalizeDefinitionClearsPricingWhenDisabled(t *testing.T) {
	t.Parallel()

	out := NormalizeAll([]Definition{{
		Label:                "Rush Order",
		Type:                 enums.FieldTypeText,
		AdjustPrice:          false,
		PriceAdjustmentType:  enums.AdjustmentTypePercentage,
		PriceAdjustmentValue: decimal.NewFromInt(25),
	}})
	if len(out) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(out))
	}
	if out[0].PriceAdjustmentType != "" || !out[0].PriceAdjustmentValue.IsZero() {
		t.Fatalf("pricing fields should be cleared: %+v", out[0])
	}
}

func TestNormalizeDefinitionDefaultsAdjustmentType(t *testing.T) {
	t.Parallel()

	out := NormalizeAll([]Definition{{
		Label:                "Engraving",
		Type:                 enums.FieldTypeText,
		AdjustPrice:          true,
		PriceAdjustmentType:  "surcharge",
		PriceAdjustmentValue: decimal.NewFromInt(5),
	}})
	if out[0].PriceAdjustmentType != enums.AdjustmentTypeFixed {
		t.Fatalf("invalid adjustment type should fall back to fixed, got %q", out[0].PriceAdjustmentType)
	}
}

func TestNormalizeOptionsValueFallsBackToLabel(t *testing.T) {
	t.Parallel()

	out := NormalizeAll([]Definition{{
		Label: "Size",
		Type:  enums.FieldTypeSelect,
		Options: []Option{
			{Label: "Small"},
			{Label: "Large", Value: "L"},
			{Label: "", Value: ""},
		},
	}})
	if len(out) != 1 {
		t.Fatalf("expected definition to survive, got %d", len(out))
	}
	opts := out[0].Options
	if len(opts) != 2 {
		t.Fatalf("expected blank option dropped, got %d options", len(opts))
	}
	if opts[0].Value != "Small" {
		t.Fatalf("value should fall back to label, got %q", opts[0].Value)
	}
	if opts[1].Value != "L" {
		t.Fatalf("explicit value should be kept, got %q", opts[1].Value)
	}
}

func TestNormalizeRuleGroupsUnknownOperatorBecomesInert(t *testing.T) {
	t.Parallel()

	out := NormalizeAll([]Definition{{
		Label:                   "Inside Text",
		Type:                    enums.FieldTypeText,
		ConditionalLogicEnabled: true,
		ConditionalRules: []RuleGroup{{Rules: []Rule{
			{Field: "Gift Wrap", Operator: "matches_regex", Value: "yes"},
		}}},
	}})
	rule := out[0].ConditionalRules[0].Rules[0]
	if rule.Operator != "" {
		t.Fatalf("unknown operator should normalize to inert, got %q", rule.Operator)
	}
	// and an inert rule keeps the field visible
	if !IsActive(out[0], Values{}) {
		t.Fatal("field gated only by an inert rule should be active")
	}
}

// Normalization must be stable: normalizing an already-normalized set, even
// after a JSON round trip, changes nothing.
func TestNormalizeAllIdempotentProperty(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	labels := gen.RegexMatch(`[A-Za-z][A-Za-z -]{0,12}`)
	types := gen.OneConstOf(
		enums.FieldTypeText, enums.FieldTypeLongText, enums.FieldTypeEmail,
		enums.FieldTypeNumber, enums.FieldTypeDate, enums.FieldTypeYesNo,
		enums.FieldTypeRadio, enums.FieldTypeCheckbox, enums.FieldTypeSelect,
	)

	properties := gopter.NewProperties(parameters)
	properties.Property("normalize is idempotent across serialization", prop.ForAll(
		func(label string, fieldType enums.FieldType, required bool, adjust bool, cents int64) bool {
			def := Definition{
				Label:                label,
				Type:                 fieldType,
				Required:             required,
				AdjustPrice:          adjust,
				PriceAdjustmentType:  enums.AdjustmentTypeFixed,
				PriceAdjustmentValue: decimal.New(cents, -2),
				Options:              []Option{{Label: "A"}, {Label: "B", Value: "b"}},
			}

			once := NormalizeAll([]Definition{def})

			payload, err := json.Marshal(once)
			if err != nil {
				return false
			}
			var decoded []Definition
			if err := json.Unmarshal(payload, &decoded); err != nil {
				return false
			}

			twice := NormalizeAll(decoded)
			onceJSON, _ := json.Marshal(once)
			twiceJSON, _ := json.Marshal(twice)
			return string(onceJSON) == string(twiceJSON)
		},
		labels,
		types,
		gen.Bool(),
		gen.Bool(),
		gen.Int64Range(-10000, 10000),
	))

	properties.TestingRun(t)
}
