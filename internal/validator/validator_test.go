package validator

import (
	"strings"
	"testing"
	"time"

	"github.com/allwin107/hsn-validation-agent/internal/catalog"
)

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	st := catalog.NewStore()
	st.Replace(catalog.NewSnapshot([]catalog.Row{
		{Code: "01", Description: "LIVE ANIMALS"},
		{Code: "0101", Description: "LIVE HORSES, ASSES, MULES AND HINNIES"},
		{Code: "01012100", Description: "PURE-BRED BREEDING HORSES"},
		{Code: "1001", Description: "WHEAT AND MESLIN"},
		{Code: "95030010", Description: "TOYS: TRICYCLES AND SCOOTERS"},
	}, time.Now()))
	return st
}

func TestValidateOne_Accepted(t *testing.T) {
	engine := New(testStore(t), 0)

	result := engine.ValidateOne("01012100")
	if !result.Valid {
		t.Fatalf("result = %+v, want valid", result)
	}
	if result.Description != "PURE-BRED BREEDING HORSES" {
		t.Fatalf("description = %q", result.Description)
	}

	wantHierarchy := []struct {
		code  string
		found bool
		desc  string
	}{
		{"01", true, "LIVE ANIMALS"},
		{"0101", true, "LIVE HORSES, ASSES, MULES AND HINNIES"},
		{"010121", false, "Not found"},
	}
	if len(result.Hierarchy) != len(wantHierarchy) {
		t.Fatalf("hierarchy = %+v, want %d entries", result.Hierarchy, len(wantHierarchy))
	}
	for i, want := range wantHierarchy {
		got := result.Hierarchy[i]
		if got.Code != want.code || got.Found != want.found || got.Description != want.desc {
			t.Fatalf("hierarchy[%d] = %+v, want %+v", i, got, want)
		}
	}
}

func TestValidateOne_TwoDigitHasEmptyHierarchy(t *testing.T) {
	engine := New(testStore(t), 0)

	result := engine.ValidateOne("01")
	if !result.Valid {
		t.Fatalf("result = %+v, want valid", result)
	}
	if len(result.Hierarchy) != 0 {
		t.Fatalf("hierarchy = %+v, want empty", result.Hierarchy)
	}
}

func TestValidateOne_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{name: "empty", raw: "  ", reason: "Empty input"},
		{name: "non numeric", raw: "ABCD", reason: "Non-numeric characters detected"},
		{name: "bad length", raw: "123", reason: "Invalid length: 3 (expected: 2,4,6,8)"},
		{name: "not found", raw: "99999999", reason: "HSN code not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := New(testStore(t), 0)
			result := engine.ValidateOne(tt.raw)
			if result.Valid {
				t.Fatalf("result = %+v, want invalid", result)
			}
			if result.Reason != tt.reason {
				t.Fatalf("reason = %q, want %q", result.Reason, tt.reason)
			}
			if result.Description != "" || len(result.Hierarchy) != 0 {
				t.Fatalf("rejection carries payload: %+v", result)
			}
		})
	}
}

func TestValidateOne_RecordsInvalidAttempts(t *testing.T) {
	st := testStore(t)
	engine := New(st, 0)

	engine.ValidateOne("99999999")
	engine.ValidateOne("99999999")
	engine.ValidateOne("ABCD")

	summary := st.InvalidSummary()
	if len(summary) != 2 {
		t.Fatalf("summary = %+v, want 2 entries", summary)
	}
	if summary[0].Key != "HSN code not found | 99999999" || summary[0].Count != 2 {
		t.Fatalf("summary[0] = %+v", summary[0])
	}
	if summary[1].Key != "Non-numeric characters detected | ABCD" || summary[1].Count != 1 {
		t.Fatalf("summary[1] = %+v", summary[1])
	}
}

func TestValidateOne_Idempotent(t *testing.T) {
	engine := New(testStore(t), 0)

	first := engine.ValidateOne("0101")
	second := engine.ValidateOne("0101")
	if first.Valid != second.Valid || first.Description != second.Description {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}

func TestValidateOne_EmptyStore(t *testing.T) {
	engine := New(catalog.NewStore(), 0)

	result := engine.ValidateOne("0101")
	if result.Valid || result.Reason != "HSN code not found" {
		t.Fatalf("result = %+v", result)
	}
}

func TestValidateMany(t *testing.T) {
	engine := New(testStore(t), 0)

	inputs := []string{"0101", "1001", "99999999"}
	batch, err := engine.ValidateMany(inputs)
	if err != nil {
		t.Fatalf("ValidateMany: %v", err)
	}

	if batch.Summary.Total != 3 || batch.Summary.Valid != 2 || batch.Summary.Invalid != 1 {
		t.Fatalf("summary = %+v", batch.Summary)
	}
	if len(batch.Results) != len(inputs) {
		t.Fatalf("results = %d, want %d", len(batch.Results), len(inputs))
	}
	for i, raw := range inputs {
		if batch.Results[i].HSNCode != raw {
			t.Fatalf("results[%d].HSNCode = %q, want %q", i, batch.Results[i].HSNCode, raw)
		}
	}
	if !batch.Results[0].Result.Valid || !batch.Results[1].Result.Valid || batch.Results[2].Result.Valid {
		t.Fatalf("unexpected outcomes: %+v", batch.Results)
	}
}

func TestValidateMany_TooLarge(t *testing.T) {
	engine := New(testStore(t), 2)

	_, err := engine.ValidateMany([]string{"01", "0101", "1001"})
	be, ok := AsBatchTooLarge(err)
	if !ok {
		t.Fatalf("err = %v, want BatchTooLargeError", err)
	}
	if be.Size != 3 || be.Max != 2 {
		t.Fatalf("err = %+v", be)
	}
}

func TestValidateMany_Empty(t *testing.T) {
	engine := New(testStore(t), 0)

	batch, err := engine.ValidateMany(nil)
	if err != nil {
		t.Fatalf("ValidateMany: %v", err)
	}
	if batch.Summary.Total != 0 || len(batch.Results) != 0 {
		t.Fatalf("batch = %+v", batch)
	}
}

func TestChat(t *testing.T) {
	engine := New(testStore(t), 0)

	reply := engine.Chat("Check 1001 and 99999999, also qwerty")
	if !strings.Contains(reply, "✅ 1001 is valid: WHEAT AND MESLIN") {
		t.Fatalf("reply missing valid line:\n%s", reply)
	}
	if !strings.Contains(reply, "❌ 99999999 is invalid: HSN code not found") {
		t.Fatalf("reply missing invalid line:\n%s", reply)
	}
	if !strings.Contains(reply, "❌ `qwerty` is not a valid HSN code.") {
		t.Fatalf("reply missing rejected token line:\n%s", reply)
	}
}

func TestChat_HierarchyBlock(t *testing.T) {
	engine := New(testStore(t), 0)

	reply := engine.Chat("Tell me about 01012100")
	if !strings.Contains(reply, "🔗 Hierarchy:") {
		t.Fatalf("reply missing hierarchy block:\n%s", reply)
	}
	if !strings.Contains(reply, "- 01: LIVE ANIMALS") {
		t.Fatalf("reply missing hierarchy entry:\n%s", reply)
	}
	if !strings.Contains(reply, "- 010121: Not found") {
		t.Fatalf("reply missing gap entry:\n%s", reply)
	}
}

func TestChat_NothingDetected(t *testing.T) {
	engine := New(testStore(t), 0)

	reply := engine.Chat("please check the code")
	if !strings.Contains(reply, "couldn't detect a valid HSN code") {
		t.Fatalf("unexpected fallback reply:\n%s", reply)
	}
}
