package reports

import "testing"

func TestPercent(t *testing.T) {
	cases := []struct {
		name   string
		part   int
		whole  int
		expect float64
	}{
		{"half", 1, 2, 50},
		{"full", 3, 3, 100},
		{"none", 0, 5, 0},
		{"rounds to two decimals", 1, 3, 33.33},
		{"rounds up", 2, 3, 66.67},
		// The divide-by-zero guard: zero sessions yields 0, never NaN.
		{"zero whole", 0, 0, 0},
		{"zero whole with part", 4, 0, 0},
	}
	for _, tc := range cases {
		if got := percent(tc.part, tc.whole); got != tc.expect {
			t.Fatalf("%s: percent(%d, %d) = %v, want %v", tc.name, tc.part, tc.whole, got, tc.expect)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := round2(33.336); got != 33.34 {
		t.Fatalf("round2(33.336) = %v, want 33.34", got)
	}
	if got := round2(33.334); got != 33.33 {
		t.Fatalf("round2(33.334) = %v, want 33.33", got)
	}
	if got := round2(50); got != 50 {
		t.Fatalf("round2(50) = %v, want 50", got)
	}
}
