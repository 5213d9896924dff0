package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_INT", "abc")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 7 {
		t.Fatalf("Int: want=%d got=%d", 7, got)
	}
	t.Setenv("ENVUTIL_TEST_INT", " 42 ")
	if got := Int("ENVUTIL_TEST_INT", 7); got != 42 {
		t.Fatalf("Int: want=%d got=%d", 42, got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_BOOL", "off")
	if Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("Bool: expected false for off")
	}
	t.Setenv("ENVUTIL_TEST_BOOL", "maybe")
	if !Bool("ENVUTIL_TEST_BOOL", true) {
		t.Fatalf("Bool: expected default for unparseable value")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_DUR", "90")
	if got := Duration("ENVUTIL_TEST_DUR", time.Second); got != 90*time.Second {
		t.Fatalf("Duration seconds: got=%s", got)
	}
	t.Setenv("ENVUTIL_TEST_DUR", "5m")
	if got := Duration("ENVUTIL_TEST_DUR", time.Second); got != 5*time.Minute {
		t.Fatalf("Duration: got=%s", got)
	}
}

func TestCSV(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_CSV", "a, b,,c ")
	got := CSV("ENVUTIL_TEST_CSV", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("CSV: got=%v", got)
	}
}
