package fields

import (
	"github.com/shopspring/decimal"

	"github.com/tomasvidal/fieldforge-backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeAdjustment returns the signed per-unit price delta contributed by one
// field for the given submitted value and base price. The result is unrounded;
// rounding to currency precision is a display and persistence concern.
//
// Choice fields price per matched option and sum every match (checkbox may
// match several); all other types apply the field-level adjustment once.
// Submitted values with no matching option contribute nothing.
func ComputeAdjustment(def Definition, value Value, basePrice decimal.Decimal) decimal.Decimal {
	if !def.AdjustPrice || value.IsEmpty() {
		return decimal.Zero
	}

	if def.Type.IsChoice() {
		total := decimal.Zero
		for _, submitted := range value {
			for _, opt := range def.Options {
				if opt.Value == submitted {
					total = total.Add(applyAdjustment(opt.PriceAdjustmentType, opt.PriceAdjustmentValue, basePrice))
					break
				}
			}
		}
		return total
	}

	return applyAdjustment(def.PriceAdjustmentType, def.PriceAdjustmentValue, basePrice)
}

// applyAdjustment is the only place the fixed/percentage arithmetic lives;
// both field-level and option-level pricing route through it.
func applyAdjustment(kind enums.AdjustmentType, amount, basePrice decimal.Decimal) decimal.Decimal {
	switch kind {
	case enums.AdjustmentTypeFixed:
		return amount
	case enums.AdjustmentTypePercentage:
		return basePrice.Div(oneHundred).Mul(amount)
	default:
		return decimal.Zero
	}
}
