package trajectory

import (
	"errors"
	"testing"
)

func TestValidateLog_Rejects(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"malformed", `[{"source":`},
		{"object root", `{"source":"user"}`},
		{"string root", `"log"`},
		{"empty array", `[]`},
		{"no objects", `[1, "two", null, []]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLog([]byte(tc.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidLog) {
				t.Errorf("expected ErrInvalidLog, got %v", err)
			}
		})
	}
}

func TestValidateLog_Accepts(t *testing.T) {
	for _, data := range []string{
		`[{}]`,
		`[1, {"source":"user"}]`,
		`[{"source":"user","content":"not json"}, "noise"]`,
	} {
		if err := ValidateLog([]byte(data)); err != nil {
			t.Errorf("ValidateLog(%s): unexpected error: %v", data, err)
		}
	}
}

func TestDecodeLog_PreservesOrderAndInvalidEntries(t *testing.T) {
	entries, err := DecodeLog([]byte(`[7, {"source":"user"}, {"source":"AgentA"}]`))
	if err != nil {
		t.Fatalf("DecodeLog: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries: got %d, want 3", len(entries))
	}
	if entries[0].Valid {
		t.Error("entry 0: expected invalid for a number element")
	}
	if entries[1].Source != "user" || entries[2].Source != "AgentA" {
		t.Errorf("order not preserved: %q, %q", entries[1].Source, entries[2].Source)
	}
}

func TestDecodeLog_NonArrayRoot(t *testing.T) {
	_, err := DecodeLog([]byte(`{"entries":[]}`))
	if !errors.Is(err, ErrInvalidLog) {
		t.Fatalf("expected ErrInvalidLog, got %v", err)
	}
}
