package domain

import (
	"context"
	"errors"
	"time"
)

// RegistrationStatus is the closed set of lifecycle states for a registration.
type RegistrationStatus string

const (
	StatusSubmitted    RegistrationStatus = "submitted"
	StatusAccepted     RegistrationStatus = "accepted"
	StatusRejected     RegistrationStatus = "rejected"
	StatusConfirmed    RegistrationStatus = "confirmed"
	StatusNotAttending RegistrationStatus = "not_attending"
)

// allowedTransitions is the full transition table of the registration state
// machine. A status absent from the map is terminal.
var allowedTransitions = map[RegistrationStatus][]RegistrationStatus{
	StatusSubmitted: {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusConfirmed, StatusNotAttending},
	StatusConfirmed: {StatusNotAttending},
}

// IsValid reports whether s is one of the five known statuses.
func (s RegistrationStatus) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusAccepted, StatusRejected, StatusConfirmed, StatusNotAttending:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s RegistrationStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusNotAttending
}

// CanTransition reports whether the state machine permits moving from one
// status to another. Idempotent repeats (same status) are not transitions and
// return false; callers handle them explicitly.
func CanTransition(from, to RegistrationStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Sentinel errors for registration workflow outcomes. These are business-rule
// rejections, distinct from wrapped infrastructure failures.
var (
	ErrDuplicateRegistration = errors.New("a registration with this email already exists for the event")
	ErrEventPassed           = errors.New("event has already passed")
	ErrRSVPCutoff            = errors.New("RSVP changes are closed within 24 hours of the event")
	ErrNotEligible           = errors.New("registration is not eligible for this action")
	ErrAlreadyCheckedIn      = errors.New("registration is already checked in")
	ErrCheckInDeclined       = errors.New("cannot check in a registration that declined attendance")
	ErrTransitionConflict    = errors.New("registration status changed concurrently")
)

// Registration is one registrant's submission for one event. Exactly one row
// exists per (event, registrant email). Check-in is a side channel independent
// of Status; CheckedIn is never true for a not_attending registration.
// swagger:model Registration
type Registration struct {
	ID          string             `json:"id"`
	EventID     string             `json:"event_id"`
	FullName    string             `json:"full_name"`
	Email       string             `json:"email"`
	FormData    map[string]any     `json:"form_data"`
	Status      RegistrationStatus `json:"status"`
	SubmittedAt time.Time          `json:"submitted_at"`
	ReviewedBy  *string            `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`
	// ConfirmedAt records the time of the last RSVP decision, set on both
	// confirm and decline.
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CheckedIn   bool       `json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
	CheckedInBy *string    `json:"checked_in_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PubliclyVisible reports whether the registration may be exposed through the
// public RSVP surface. Submitted and rejected registrations are hidden and
// indistinguishable from unknown ids.
func (r *Registration) PubliclyVisible() bool {
	switch r.Status {
	case StatusAccepted, StatusConfirmed, StatusNotAttending:
		return true
	}
	return false
}

// RegistrationListFilter narrows operator list queries.
type RegistrationListFilter struct {
	Status *RegistrationStatus
	Search string
}

// CheckInStats aggregates attendance numbers for one event.
// swagger:model CheckInStats
type CheckInStats struct {
	Total        int `json:"total"`
	Submitted    int `json:"submitted"`
	Accepted     int `json:"accepted"`
	Rejected     int `json:"rejected"`
	Confirmed    int `json:"confirmed"`
	NotAttending int `json:"not_attending"`
	CheckedIn    int `json:"checked_in"`
}

// RegistrationRepository defines storage operations for registrations.
//
// The status-changing writes are conditional on the current stored status
// (compare-and-swap): when the stored status no longer matches, they return
// ErrTransitionConflict and leave the row untouched. The store is the sole
// arbiter of transition atomicity; no in-process lock is held.
type RegistrationRepository interface {
	// Create inserts the registration. A (event_id, email) collision returns
	// ErrDuplicateRegistration.
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	ListByEvent(ctx context.Context, eventID string, filter RegistrationListFilter, params PaginationParams) ([]*Registration, int, error)
	// UpdateStatusFrom moves the registration from one status to another,
	// recording the reviewing operator. Returns the updated row.
	UpdateStatusFrom(ctx context.Context, id string, from, to RegistrationStatus, reviewerID string, reviewedAt time.Time) (*Registration, error)
	// SetConfirmed moves accepted→confirmed and stamps confirmed_at.
	SetConfirmed(ctx context.Context, id string, confirmedAt time.Time) (*Registration, error)
	// SetNotAttending moves the registration to not_attending from the given
	// status and stamps confirmed_at with the decline time.
	SetNotAttending(ctx context.Context, id string, from RegistrationStatus, declinedAt time.Time) (*Registration, error)
	// CheckIn flags the registration as checked in. The update is conditional
	// on checked_in = false and an eligible status; a lost race returns
	// ErrTransitionConflict.
	CheckIn(ctx context.Context, id, operatorID string, at time.Time) (*Registration, error)
	CheckInStats(ctx context.Context, eventID string) (*CheckInStats, error)
}

// RSVPWindow reports the time-gating flags for an event at some instant.
// HasPassed takes precedence over WithinCutoff in error reporting.
type RSVPWindow struct {
	HasPassed    bool `json:"event_has_passed"`
	WithinCutoff bool `json:"within_rsvp_cutoff"`
}

// RSVPDetails is the public read model returned by the RSVP surface.
// swagger:model RSVPDetails
type RSVPDetails struct {
	Event         *EventSummary      `json:"event"`
	Registration  *Registration      `json:"registration"`
	CurrentStatus RegistrationStatus `json:"current_status"`
	CanConfirm    bool               `json:"can_confirm"`
	CanDecline    bool               `json:"can_decline"`
	IsFinal       bool               `json:"is_final"`
	Window        RSVPWindow         `json:"window"`
}

// SubmitRegistrationInput is the payload for a public submission.
type SubmitRegistrationInput struct {
	FullName string
	Email    string
	FormData map[string]any
}

// RegistrationService is the workflow owning every status transition.
type RegistrationService interface {
	Submit(ctx context.Context, eventSlug string, input SubmitRegistrationInput) (*Registration, error)
	Accept(ctx context.Context, registrationID, reviewerID string) (*Registration, error)
	Reject(ctx context.Context, registrationID, reviewerID string) (*Registration, error)
	RSVPDetails(ctx context.Context, registrationID string) (*RSVPDetails, error)
	Confirm(ctx context.Context, registrationID string) (*Registration, error)
	Decline(ctx context.Context, registrationID string) (*Registration, error)
	ListByEvent(ctx context.Context, eventID string, filter RegistrationListFilter, params PaginationParams) ([]*Registration, int, error)
	GetByID(ctx context.Context, registrationID string) (*Registration, error)
}

// CheckInResult is the per-registration outcome of a bulk check-in.
type CheckInResult struct {
	RegistrationID string `json:"registration_id"`
	CheckedIn      bool   `json:"checked_in"`
	Error          string `json:"error,omitempty"`
}

// AttendanceService guards and records physical check-in.
type AttendanceService interface {
	CheckIn(ctx context.Context, registrationID, operatorID string) (*Registration, error)
	BulkCheckIn(ctx context.Context, registrationIDs []string, operatorID string) ([]CheckInResult, error)
	Stats(ctx context.Context, eventID string) (*CheckInStats, error)
}
