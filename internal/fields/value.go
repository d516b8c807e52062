package fields

import (
	"encoding/json"
	"strings"
)

// Value holds the submitted content for one field. Single-value widgets carry
// one entry; checkboxes may carry several. Entries stay separate through
// validation and pricing; joining to a display string happens only when a
// snapshot is built.
type Value []string

// NewValue wraps a single submitted string. Empty input yields an empty Value.
func NewValue(s string) Value {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return Value{s}
}

// UnmarshalJSON accepts a JSON string, an array of strings, or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var entries []string
		if err := json.Unmarshal(data, &entries); err != nil {
			return err
		}
		*v = entries
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*v = nil
		return nil
	}
	*v = Value{single}
	return nil
}

// IsEmpty reports whether no usable content was submitted.
func (v Value) IsEmpty() bool {
	for _, entry := range v {
		if strings.TrimSpace(entry) != "" {
			return false
		}
	}
	return true
}

// First returns the first entry, or "" when empty.
func (v Value) First() string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Join renders the value as its display string. Multi values are joined with
// ", " exactly as they are persisted and compared for audit diffing.
func (v Value) Join() string {
	return strings.Join(v, ", ")
}

// Values maps derived field keys to submitted values for one request.
type Values map[string]Value

// Get returns the value for a derived key, or an empty Value.
func (vs Values) Get(key string) Value {
	if vs == nil {
		return nil
	}
	return vs[key]
}
