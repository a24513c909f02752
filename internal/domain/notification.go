package domain

// NotificationKind identifies the email raised by a workflow transition.
type NotificationKind string

const (
	// Direct notifications address the registrant.
	NotificationApplicationReceived  NotificationKind = "application_received"
	NotificationRegistrationAccepted NotificationKind = "registration_accepted"
	NotificationAttendanceConfirmed  NotificationKind = "attendance_confirmed"
	NotificationAttendanceDeclined   NotificationKind = "attendance_declined"
	// Fan-out notifications address every user opted in to a category.
	NotificationRSVPDeclineAlert    NotificationKind = "rsvp_decline_alert"
	NotificationNewApplicationAlert NotificationKind = "new_application_alert"
)

// FanOutCategory returns the preference category a fan-out kind resolves its
// recipients from, or "" for direct kinds.
func (k NotificationKind) FanOutCategory() string {
	switch k {
	case NotificationRSVPDeclineAlert:
		return CategoryRSVPChanges
	case NotificationNewApplicationAlert:
		return CategoryNewApplicationSubmitted
	}
	return ""
}

// Notification is the intent a workflow transition hands to the dispatcher.
// It carries snapshots of the registration and event so rendering never reads
// back through the store.
type Notification struct {
	Kind           NotificationKind
	Registration   *Registration
	Event          *Event
	PreviousStatus RegistrationStatus
}

// NotificationDispatcher consumes notification intents off the synchronous
// request path. Enqueue must never block the caller, and a delivery failure
// must never surface to, or roll back, the transition that raised the intent.
type NotificationDispatcher interface {
	Enqueue(n Notification)
}
