package domain

import "time"

// RSVPCutoffWindow is the period before an event's start during which RSVP
// changes are blocked.
const RSVPCutoffWindow = 24 * time.Hour

// Time-gating rules for RSVP actions. All instants are UTC-normalized: the
// store scans unzoned event timestamps as UTC, and callers pass an explicit
// clock so tests can supply fixed instants.

// EventHasPassed reports whether the event has started. An event starting
// exactly now counts as passed.
func EventHasPassed(now, start time.Time) bool {
	return !now.Before(start)
}

// WithinRSVPCutoff reports whether now falls inside the cutoff window. The
// boundary is inclusive: exactly 24 hours before start is already inside.
func WithinRSVPCutoff(now, start time.Time) bool {
	return !now.Before(start.Add(-RSVPCutoffWindow))
}

// EvaluateRSVPWindow computes both time-gating flags in one pass. Callers
// checking eligibility must report HasPassed before WithinCutoff.
func EvaluateRSVPWindow(now, start time.Time) RSVPWindow {
	return RSVPWindow{
		HasPassed:    EventHasPassed(now, start),
		WithinCutoff: WithinRSVPCutoff(now, start),
	}
}
