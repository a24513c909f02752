package domain

import (
	"context"
	"time"
)

// Event is the read-only view of an event this subsystem needs: the start
// instant for time-gating and the descriptive fields for email rendering.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventSummary is the subset of event fields exposed on the public RSVP page.
// swagger:model EventSummary
type EventSummary struct {
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
}

// Summary returns the public view of the event.
func (e *Event) Summary() *EventSummary {
	return &EventSummary{
		Title:       e.Title,
		StartTime:   e.StartTime,
		Location:    e.Location,
		Description: e.Description,
	}
}

// EventRepository defines read access to events. This subsystem never writes
// events.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
}
