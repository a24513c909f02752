package domain

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestEventHasPassed(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"event in future", fixedNow.Add(30 * time.Hour), false},
		{"event in past", fixedNow.Add(-time.Hour), true},
		{"event starting exactly now", fixedNow, true},
		{"event one second away", fixedNow.Add(time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EventHasPassed(fixedNow, tt.start); got != tt.want {
				t.Fatalf("EventHasPassed(now, %v) = %v, want %v", tt.start, got, tt.want)
			}
		})
	}
}

func TestWithinRSVPCutoff(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"more than 24h away", fixedNow.Add(30 * time.Hour), false},
		{"exactly 24h away is inside", fixedNow.Add(24 * time.Hour), true},
		{"24h and one second away is outside", fixedNow.Add(24*time.Hour + time.Second), false},
		{"23h away", fixedNow.Add(23 * time.Hour), true},
		{"one hour away", fixedNow.Add(time.Hour), true},
		{"event already passed", fixedNow.Add(-time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinRSVPCutoff(fixedNow, tt.start); got != tt.want {
				t.Fatalf("WithinRSVPCutoff(now, %v) = %v, want %v", tt.start, got, tt.want)
			}
		})
	}
}

func TestEvaluateRSVPWindow(t *testing.T) {
	w := EvaluateRSVPWindow(fixedNow, fixedNow.Add(-time.Hour))
	if !w.HasPassed || !w.WithinCutoff {
		t.Fatalf("passed event: got %+v, want both flags true", w)
	}

	w = EvaluateRSVPWindow(fixedNow, fixedNow.Add(30*time.Hour))
	if w.HasPassed || w.WithinCutoff {
		t.Fatalf("far-future event: got %+v, want both flags false", w)
	}

	w = EvaluateRSVPWindow(fixedNow, fixedNow.Add(23*time.Hour))
	if w.HasPassed || !w.WithinCutoff {
		t.Fatalf("near event: got %+v, want within cutoff only", w)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to RegistrationStatus }{
		{StatusSubmitted, StatusAccepted},
		{StatusSubmitted, StatusRejected},
		{StatusAccepted, StatusConfirmed},
		{StatusAccepted, StatusNotAttending},
		{StatusConfirmed, StatusNotAttending},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Fatalf("expected %s -> %s to be allowed", tr.from, tr.to)
		}
	}

	statuses := []RegistrationStatus{StatusSubmitted, StatusAccepted, StatusRejected, StatusConfirmed, StatusNotAttending}
	for _, to := range statuses {
		if CanTransition(StatusRejected, to) {
			t.Fatalf("rejected must be terminal, got transition to %s", to)
		}
		if CanTransition(StatusNotAttending, to) {
			t.Fatalf("not_attending must be terminal, got transition to %s", to)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	for _, s := range []RegistrationStatus{StatusRejected, StatusNotAttending} {
		if !s.IsTerminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
	for _, s := range []RegistrationStatus{StatusSubmitted, StatusAccepted, StatusConfirmed} {
		if s.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", s)
		}
	}
}
