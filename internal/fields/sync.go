package fields

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Result carries everything one synchronization pass produces. It is built
// entirely in memory so callers can persist the whole snapshot set in a single
// write after the pipeline succeeds.
type Result struct {
	Snapshots  []Snapshot
	Adjustment decimal.Decimal
}

// SnapshotMap keys the result's snapshots by derived field key, the shape
// stored in line-item metadata.
func (r *Result) SnapshotMap() map[string]Snapshot {
	out := make(map[string]Snapshot, len(r.Snapshots))
	for _, snap := range r.Snapshots {
		out[snap.Key] = snap
	}
	return out
}

// Synchronize runs the full submitted-values pipeline against one definition
// set: visibility gating, validation, price adjustment, snapshot construction.
// Hidden fields are skipped entirely and never block submission. The returned
// Adjustment is the summed per-unit delta across all active fields.
func Synchronize(defs []Definition, values Values, basePrice decimal.Decimal, failFast bool) (*Result, error) {
	sanitized, err := ValidateSubmission(defs, values, failFast)
	if err != nil {
		return nil, err
	}

	res := &Result{Adjustment: decimal.Zero}
	for _, def := range defs {
		if !IsActive(def, values) {
			continue
		}
		value := sanitized.Get(def.Key())
		if value.IsEmpty() {
			continue
		}
		adjustment := ComputeAdjustment(def, value, basePrice)
		res.Snapshots = append(res.Snapshots, BuildSnapshot(def, value, adjustment))
		res.Adjustment = res.Adjustment.Add(adjustment)
	}
	return res, nil
}

// Diff compares the prior snapshot set against a freshly synchronized one and
// returns one audit note per field whose joined display value changed. Fields
// cleared by the new submission are reported as changes to the empty string.
func Diff(old map[string]Snapshot, updated []Snapshot) []string {
	var notes []string
	seen := make(map[string]struct{}, len(updated))
	for _, snap := range updated {
		seen[snap.Key] = struct{}{}
		prev := old[snap.Key]
		if note, ok := NoteChange(snap.Label, prev.Value, snap.Value); ok {
			notes = append(notes, note)
		}
	}

	removed := make([]string, 0, len(old))
	for key := range old {
		if _, ok := seen[key]; !ok {
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	for _, key := range removed {
		prev := old[key]
		if note, ok := NoteChange(prev.Label, prev.Value, nil); ok {
			notes = append(notes, note)
		}
	}
	return notes
}
