package fields

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Snapshot is the durable record of one field value attached to a cart line or
// order line. The definition is copied in full, not referenced, so later edits
// to the product's field definitions never rewrite history.
type Snapshot struct {
	Key             string     `json:"key"`
	Label           string     `json:"label"`
	Value           Value      `json:"value"`
	DisplayValue    string     `json:"display_value"`
	Display         string     `json:"display"`
	AdjustmentCents int64      `json:"adjustment_cents"`
	Definition      Definition `json:"definition"`
}

// BuildSnapshot freezes one validated value together with its definition and
// computed price delta.
func BuildSnapshot(def Definition, value Value, adjustment decimal.Decimal) Snapshot {
	display := value.Join()
	return Snapshot{
		Key:             def.Key(),
		Label:           def.Label,
		Value:           value,
		DisplayValue:    display,
		Display:         display + PriceSuffix(adjustment),
		AdjustmentCents: CentsOf(adjustment),
		Definition:      def,
	}
}

// PriceSuffix renders the display decoration for a non-zero adjustment,
// e.g. " (+$10.00)" or " (-$2.50)". Zero adjustments produce "".
func PriceSuffix(adjustment decimal.Decimal) string {
	rounded := adjustment.Round(2)
	if rounded.IsZero() {
		return ""
	}
	sign := "+"
	if rounded.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf(" (%s$%s)", sign, rounded.Abs().StringFixed(2))
}

// CentsOf rounds a monetary amount to whole cents for persistence.
func CentsOf(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// NoteChange returns the audit note text for a changed field value, or
// ok=false when the joined display strings are equal and no note is due.
func NoteChange(label string, oldValue, newValue Value) (string, bool) {
	oldJoined := oldValue.Join()
	newJoined := newValue.Join()
	if oldJoined == newJoined {
		return "", false
	}
	return fmt.Sprintf("%s changed from %q to %q", label, oldJoined, newJoined), true
}
