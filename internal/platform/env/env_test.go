package env

import (
	"testing"
	"time"
)

func TestString(t *testing.T) {
	t.Setenv("HSN_TEST_STRING", "value")
	if got := String("HSN_TEST_STRING", "def"); got != "value" {
		t.Fatalf("String = %q, want value", got)
	}
	if got := String("HSN_TEST_STRING_UNSET", "def"); got != "def" {
		t.Fatalf("String = %q, want def", got)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("HSN_TEST_INT", "42")
	got, err := Int("HSN_TEST_INT", 7)
	if err != nil || got != 42 {
		t.Fatalf("Int = %d, %v", got, err)
	}
	if got, err := Int("HSN_TEST_INT_UNSET", 7); err != nil || got != 7 {
		t.Fatalf("Int default = %d, %v", got, err)
	}

	t.Setenv("HSN_TEST_INT_BAD", "many")
	if _, err := Int("HSN_TEST_INT_BAD", 7); err == nil {
		t.Fatal("Int accepted garbage")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("HSN_TEST_DURATION", "1500ms")
	got, err := Duration("HSN_TEST_DURATION", time.Second)
	if err != nil || got != 1500*time.Millisecond {
		t.Fatalf("Duration = %v, %v", got, err)
	}

	t.Setenv("HSN_TEST_DURATION_BAD", "soon")
	if _, err := Duration("HSN_TEST_DURATION_BAD", time.Second); err == nil {
		t.Fatal("Duration accepted garbage")
	}
}
