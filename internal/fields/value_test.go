package fields

import (
	"encoding/json"
	"testing"
)

func TestValueUnmarshalJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want Value
	}{
		{"string", `"hello"`, Value{"hello"}},
		{"empty string", `""`, nil},
		{"array", `["A","B"]`, Value{"A", "B"}},
		{"empty array", `[]`, Value{}},
		{"null", `null`, nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got Value
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if got.Join() != tc.want.Join() || len(got) != len(tc.want) {
				t.Fatalf("unmarshal %s = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}

	var bad Value
	if err := json.Unmarshal([]byte(`42`), &bad); err == nil {
		t.Fatal("numbers are not a valid value shape")
	}
}

func TestValueIsEmpty(t *testing.T) {
	t.Parallel()

	if !(Value(nil)).IsEmpty() {
		t.Fatal("nil value should be empty")
	}
	if !(Value{"", "  "}).IsEmpty() {
		t.Fatal("whitespace-only entries should be empty")
	}
	if (Value{"", "x"}).IsEmpty() {
		t.Fatal("any non-blank entry makes the value non-empty")
	}
}

func TestValuesGet(t *testing.T) {
	t.Parallel()

	var nilValues Values
	if got := nilValues.Get("anything"); !got.IsEmpty() {
		t.Fatal("nil map should return empty value")
	}

	vs := Values{"key": Value{"v"}}
	if got := vs.Get("key"); got.First() != "v" {
		t.Fatalf("unexpected value %v", got)
	}
}
