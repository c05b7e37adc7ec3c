package scoring

import "time"

// LockGrace is how long after kickoff a match still accepts predictions.
const LockGrace = time.Minute

// IsLocked reports whether predictions for a match can no longer be created or
// changed. It is computed from the current match state on every call.
func IsLocked(kickoff time.Time, isFinished bool, now time.Time) bool {
	if isFinished {
		return true
	}
	return !now.Before(kickoff.Add(LockGrace))
}
