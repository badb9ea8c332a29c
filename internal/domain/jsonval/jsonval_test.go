package jsonval_test

import (
	"encoding/json"
	"testing"

	"gymadmin/internal/domain/jsonval"
)

// TestBool_Unmarshal covers the encodings the gym API uses for flags.
func TestBool_Unmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`"1"`, true},
		{`null`, false},
		{`2`, true},
	}
	for _, tt := range tests {
		var b jsonval.Bool
		if err := json.Unmarshal([]byte(tt.in), &b); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tt.in, err)
		}
		if bool(b) != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, b, tt.want)
		}
	}
}

// TestBool_UnmarshalRejectsGarbage verifies non-boolean text is an error.
func TestBool_UnmarshalRejectsGarbage(t *testing.T) {
	var b jsonval.Bool
	if err := json.Unmarshal([]byte(`"yes please"`), &b); err == nil {
		t.Fatal("expected error for non-boolean string")
	}
}

// TestDecimal_StringAndUnmarshal covers number, string and null ratings.
func TestDecimal_StringAndUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`4.5`, "4.5"},
		{`"4.50"`, "4.5"},
		{`null`, "-"},
		{`0`, "-"},
	}
	for _, tt := range tests {
		var d jsonval.Decimal
		if err := json.Unmarshal([]byte(tt.in), &d); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", tt.in, err)
		}
		if got := d.String(); got != tt.want {
			t.Errorf("Decimal(%s).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
