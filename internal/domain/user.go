package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUserNotFound is returned when a user lookup misses.
var ErrUserNotFound = errors.New("user not found")

// Notification categories keyed in NotificationPreferences.
const (
	CategoryRSVPChanges             = "rsvp_changes"
	CategoryNewApplicationSubmitted = "new_application_submitted"
	CategoryAnnouncements           = "announcements"
)

// Values for the enumerated announcements category.
const (
	AnnouncementsAll        = "all"
	AnnouncementsUrgentOnly = "urgent_only"
	AnnouncementsNone       = "none"
)

// NotificationPreferences is a fixed-shape record with one field per known
// category. Every key is always present: a partial record is a data-integrity
// error, not "default off". Unknown categories fail closed.
// swagger:model NotificationPreferences
type NotificationPreferences struct {
	RSVPChanges             bool   `json:"rsvp_changes"`
	NewApplicationSubmitted bool   `json:"new_application_submitted"`
	Announcements           string `json:"announcements"`
}

// Validate checks that the record is fully populated with recognized values.
func (p NotificationPreferences) Validate() error {
	switch p.Announcements {
	case AnnouncementsAll, AnnouncementsUrgentOnly, AnnouncementsNone:
		return nil
	case "":
		return fmt.Errorf("%w: announcements preference is required", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: unknown announcements preference %q", ErrInvalidInput, p.Announcements)
	}
}

// OptedIn reports whether the record opts in to the given category. Boolean
// categories require true; enumerated categories require any value other than
// "none". Unknown categories are excluded.
func (p NotificationPreferences) OptedIn(category string) bool {
	switch category {
	case CategoryRSVPChanges:
		return p.RSVPChanges
	case CategoryNewApplicationSubmitted:
		return p.NewApplicationSubmitted
	case CategoryAnnouncements:
		return p.Announcements != "" && p.Announcements != AnnouncementsNone
	}
	return false
}

// User represents an operator account.
// swagger:model User
type User struct {
	ID           string                  `json:"id"`
	Email        string                  `json:"email"`
	Name         string                  `json:"name"`
	LastName     string                  `json:"last_name"`
	PasswordHash string                  `json:"-"`
	Salt         string                  `json:"-"`
	Preferences  NotificationPreferences `json:"notification_preferences"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated operator.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines storage operations for operator accounts and the
// notification preference index.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListNotificationRecipients returns every user opted in to the category,
	// regardless of role. Missing or malformed preference records are
	// excluded, never treated as opted in by default.
	ListNotificationRecipients(ctx context.Context, category string) ([]*User, error)
	UpdateNotificationPreferences(ctx context.Context, userID string, prefs NotificationPreferences) (*User, error)
}

// UserService defines the operator-facing account operations this subsystem
// consumes: authentication for the operator endpoints and the profile surface
// that produces the preference records the core reads.
type UserService interface {
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateNotificationPreferences(ctx context.Context, userID string, prefs NotificationPreferences) (*User, error)
}
