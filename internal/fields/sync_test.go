package fields

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
)

func TestSynchronizeEndToEnd(t *testing.T) {
	t.Parallel()

	defs := []Definition{
		{
			Label:    "Recipient Email",
			Type:     enums.FieldTypeEmail,
			Required: true,
		},
		{
			Label:                "Gift Wrap",
			Type:                 enums.FieldTypeYesNo,
			AdjustPrice:          true,
			PriceAdjustmentType:  enums.AdjustmentTypeFixed,
			PriceAdjustmentValue: decimal.NewFromInt(10),
		},
		{
			Label:                   "Inside Text",
			Type:                    enums.FieldTypeText,
			Required:                true,
			ConditionalLogicEnabled: true,
			ConditionalRules: []RuleGroup{{Rules: []Rule{
				{Field: "Gift Wrap", Operator: enums.RuleOperatorEquals, Value: "yes"},
			}}},
		},
	}

	values := Values{
		"recipient_email": Value{"gift@example.com"},
		"gift_wrap":       Value{"yes"},
		"inside_text":     Value{"Happy Birthday"},
	}

	res, err := Synchronize(defs, values, decimal.NewFromInt(100), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(res.Snapshots))
	}
	if !res.Adjustment.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected total adjustment 10, got %s", res.Adjustment)
	}

	byKey := res.SnapshotMap()
	wrap := byKey["gift_wrap"]
	if wrap.Display != "yes (+$10.00)" {
		t.Fatalf("unexpected gift wrap display %q", wrap.Display)
	}
	if byKey["recipient_email"].AdjustmentCents != 0 {
		t.Fatal("non-pricing field must not carry an adjustment")
	}
}

func TestSynchronizeSkipsHiddenFields(t *testing.T) {
	t.Parallel()

	defs := []Definition{
		{Label: "Gift Wrap", Type: enums.FieldTypeYesNo},
		{
			Label:                   "Inside Text",
			Type:                    enums.FieldTypeText,
			Required:                true,
			AdjustPrice:             true,
			PriceAdjustmentType:     enums.AdjustmentTypeFixed,
			PriceAdjustmentValue:    decimal.NewFromInt(5),
			ConditionalLogicEnabled: true,
			ConditionalRules: []RuleGroup{{Rules: []Rule{
				{Field: "Gift Wrap", Operator: enums.RuleOperatorEquals, Value: "yes"},
			}}},
		},
	}

	// the hidden field's stale submitted value must not validate, price, or snapshot
	values := Values{
		"gift_wrap":   Value{"no"},
		"inside_text": Value{"stale"},
	}

	res, err := Synchronize(defs, values, decimal.NewFromInt(100), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Snapshots) != 1 {
		t.Fatalf("expected only the visible field, got %d snapshots", len(res.Snapshots))
	}
	if !res.Adjustment.IsZero() {
		t.Fatalf("hidden field priced anyway: %s", res.Adjustment)
	}
}

func TestSynchronizeOmitsEmptyOptionalFields(t *testing.T) {
	t.Parallel()

	defs := []Definition{
		{Label: "Engraving", Type: enums.FieldTypeText},
	}

	res, err := Synchronize(defs, Values{}, decimal.NewFromInt(100), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Snapshots) != 0 {
		t.Fatalf("empty optional field should produce no snapshot, got %d", len(res.Snapshots))
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	old := map[string]Snapshot{
		"engraving": {Key: "engraving", Label: "Engraving", Value: Value{"old text"}},
		"gift_wrap": {Key: "gift_wrap", Label: "Gift Wrap", Value: Value{"yes"}},
		"add_ons":   {Key: "add_ons", Label: "Add-ons", Value: Value{"A", "B"}},
	}
	updated := []Snapshot{
		{Key: "engraving", Label: "Engraving", Value: Value{"new text"}},
		{Key: "gift_wrap", Label: "Gift Wrap", Value: Value{"yes"}},
	}

	notes := Diff(old, updated)
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d: %v", len(notes), notes)
	}
	if notes[0] != `Engraving changed from "old text" to "new text"` {
		t.Fatalf("unexpected change note %q", notes[0])
	}
	if notes[1] != `Add-ons changed from "A, B" to ""` {
		t.Fatalf("removed field should diff to empty, got %q", notes[1])
	}
}

func TestDiffNoChanges(t *testing.T) {
	t.Parallel()

	old := map[string]Snapshot{
		"engraving": {Key: "engraving", Label: "Engraving", Value: Value{"same"}},
	}
	updated := []Snapshot{
		{Key: "engraving", Label: "Engraving", Value: Value{"same"}},
	}
	if notes := Diff(old, updated); len(notes) != 0 {
		t.Fatalf("expected no notes, got %v", notes)
	}
}

func TestDiffNewField(t *testing.T) {
	t.Parallel()

	updated := []Snapshot{
		{Key: "engraving", Label: "Engraving", Value: Value{"fresh"}},
	}
	notes := Diff(map[string]Snapshot{}, updated)
	if len(notes) != 1 || notes[0] != `Engraving changed from "" to "fresh"` {
		t.Fatalf("newly filled field should diff from empty, got %v", notes)
	}
}
