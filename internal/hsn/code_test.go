package hsn

import (
	"reflect"
	"testing"
)

func TestCheckFormat(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		wantKind FormatErrorKind
		wantErr  string
	}{
		{name: "valid 2", raw: "01", want: "01"},
		{name: "valid 4", raw: "0101", want: "0101"},
		{name: "valid 8 with padding", raw: "  01012100 ", want: "01012100"},
		{name: "empty", raw: "", wantKind: FormatEmpty, wantErr: "Empty input"},
		{name: "whitespace only", raw: "   ", wantKind: FormatEmpty, wantErr: "Empty input"},
		{name: "letters", raw: "ABCD", wantKind: FormatNonNumeric, wantErr: "Non-numeric characters detected"},
		{name: "mixed", raw: "01A2", wantKind: FormatNonNumeric, wantErr: "Non-numeric characters detected"},
		{name: "decimal point", raw: "01.2", wantKind: FormatNonNumeric, wantErr: "Non-numeric characters detected"},
		{name: "length 3", raw: "123", wantKind: FormatInvalidLength, wantErr: "Invalid length: 3 (expected: 2,4,6,8)"},
		{name: "length 1", raw: "7", wantKind: FormatInvalidLength, wantErr: "Invalid length: 1 (expected: 2,4,6,8)"},
		{name: "length 9", raw: "123456789", wantKind: FormatInvalidLength, wantErr: "Invalid length: 9 (expected: 2,4,6,8)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckFormat(tt.raw)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("CheckFormat(%q) error = %v, want nil", tt.raw, err)
				}
				if got != tt.want {
					t.Fatalf("CheckFormat(%q) = %q, want %q", tt.raw, got, tt.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("CheckFormat(%q) = %q, want error", tt.raw, got)
			}
			fe, ok := AsFormatError(err)
			if !ok {
				t.Fatalf("CheckFormat(%q) error = %v, want *FormatError", tt.raw, err)
			}
			if fe.Kind != tt.wantKind {
				t.Fatalf("kind = %d, want %d", fe.Kind, tt.wantKind)
			}
			if fe.Reason != tt.wantErr {
				t.Fatalf("reason = %q, want %q", fe.Reason, tt.wantErr)
			}
		})
	}
}

func TestCheckFormat_NonASCIIDigits(t *testing.T) {
	// Devanagari digits are numeric runes but not decimal ASCII digits.
	if _, err := CheckFormat("०१"); err == nil {
		t.Fatal("CheckFormat accepted non-ASCII digits")
	}
}

func TestParentPrefixes(t *testing.T) {
	tests := []struct {
		code string
		want []string
	}{
		{code: "01", want: []string{}},
		{code: "0101", want: []string{"01"}},
		{code: "010121", want: []string{"01", "0101"}},
		{code: "01012100", want: []string{"01", "0101", "010121"}},
	}
	for _, tt := range tests {
		got := ParentPrefixes(tt.code)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ParentPrefixes(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
