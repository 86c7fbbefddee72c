package classes

import (
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Physics":             "physics",
		"Data Structures 101": "data-structures-101",
		"  C++ / Go!  ":       "c-go",
		"":                    "class",
		"!!!":                 "class",
	}
	for input, expect := range cases {
		if got := slugify(input); got != expect {
			t.Fatalf("slugify(%q) = %q, want %q", input, got, expect)
		}
	}
}

func TestNewCodeShape(t *testing.T) {
	code := newCode("Physics", "9c9c1d2e-aaaa-bbbb-cccc-ddddeeeeffff")
	if !strings.HasPrefix(code, "physics-9c9c1d2e-") {
		t.Fatalf("unexpected code shape: %s", code)
	}
}

func TestNewCodeVariesPerCall(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := newCode("Physics", "teacher-1")
		if seen[code] {
			t.Fatalf("duplicate code generated: %s", code)
		}
		seen[code] = true
	}
}

func TestSessionActive(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now.Add(30 * time.Second)}

	if !s.Active(now) {
		t.Fatal("expected session to be active at creation")
	}
	if !s.Active(now.Add(29 * time.Second)) {
		t.Fatal("expected session to be active just before expiry")
	}
	// Expiry is exclusive: at the expiry instant the code is already dead.
	if s.Active(now.Add(30 * time.Second)) {
		t.Fatal("expected session to be expired at the expiry instant")
	}
	if s.Active(now.Add(31 * time.Second)) {
		t.Fatal("expected session to be expired past expiry")
	}
}
