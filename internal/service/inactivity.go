package service

import "time"

// inactivityThresholdDays is the window after which a student with no new
// submissions is flagged inactive.
const inactivityThresholdDays = 7

// IsInactive reports whether a student counts as inactive at the given
// instant. A student who never submitted (nil last submission) is inactive.
// The comparison uses whole elapsed days, so exactly seven days without a
// submission already qualifies.
func IsInactive(lastSubmission *time.Time, now time.Time) bool {
	if lastSubmission == nil {
		return true
	}
	elapsed := now.Sub(*lastSubmission)
	if elapsed < 0 {
		return false
	}
	days := int(elapsed.Hours() / 24)
	return days >= inactivityThresholdDays
}
