package scoring

import (
	"testing"
	"time"
)

func TestIsLocked(t *testing.T) {
	kickoff := time.Date(2026, 5, 10, 16, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		finished bool
		now      time.Time
		want     bool
	}{
		{"before kickoff", false, kickoff.Add(-time.Hour), false},
		{"30s after kickoff", false, kickoff.Add(30 * time.Second), false},
		{"exactly one minute", false, kickoff.Add(time.Minute), true},
		{"61s after kickoff", false, kickoff.Add(61 * time.Second), true},
		{"finished before kickoff", true, kickoff.Add(-24 * time.Hour), true},
		{"finished long after", true, kickoff.Add(48 * time.Hour), true},
	}
	for _, tc := range cases {
		if got := IsLocked(kickoff, tc.finished, tc.now); got != tc.want {
			t.Errorf("%s: IsLocked = %v, want %v", tc.name, got, tc.want)
		}
	}
}
