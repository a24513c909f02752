package services

import (
	"context"
	"log/slog"
	"time"

	"eventregistry/internal/domain"
)

// dispatchTimeout bounds one notification's recipient resolution and sends.
const dispatchTimeout = 30 * time.Second

// NotificationDispatcher consumes notification intents from a buffered queue
// off the request path. The transition that raised an intent has already
// returned to its caller; nothing here can fail or roll it back.
type NotificationDispatcher struct {
	logger *slog.Logger
	users  domain.UserRepository
	emails domain.EmailService
	queue  chan domain.Notification
}

// NewNotificationDispatcher creates a dispatcher with the given queue size.
func NewNotificationDispatcher(logger *slog.Logger, users domain.UserRepository, emails domain.EmailService, queueSize int) *NotificationDispatcher {
	return &NotificationDispatcher{
		logger: logger,
		users:  users,
		emails: emails,
		queue:  make(chan domain.Notification, queueSize),
	}
}

// Enqueue hands a notification intent to the dispatcher without blocking the
// caller. When the queue is saturated the intent is dropped and logged.
func (d *NotificationDispatcher) Enqueue(n domain.Notification) {
	select {
	case d.queue <- n:
	default:
		d.logger.Warn("notification queue full, dropping intent",
			"kind", n.Kind,
			"registration_id", n.Registration.ID,
		)
	}
}

// Run consumes the queue until ctx is cancelled. Meant to run on its own
// goroutine.
func (d *NotificationDispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopping")
			return
		case n := <-d.queue:
			d.Dispatch(n)
		}
	}
}

// Dispatch delivers one notification intent synchronously: a direct kind goes
// to the registrant, a fan-out kind to every subscriber of its category.
func (d *NotificationDispatcher) Dispatch(n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if category := n.Kind.FanOutCategory(); category != "" {
		d.fanOut(ctx, n, category)
		return
	}
	d.direct(ctx, n)
}

func (d *NotificationDispatcher) direct(ctx context.Context, n domain.Notification) {
	reg, event := n.Registration, n.Event
	data := &domain.RegistrationEmailData{
		FullName:       reg.FullName,
		EventTitle:     event.Title,
		EventStart:     event.StartTime,
		EventLocation:  event.Location,
		RegistrationID: reg.ID,
	}

	var err error
	switch n.Kind {
	case domain.NotificationApplicationReceived:
		err = d.emails.SendApplicationReceived(ctx, reg.Email, data)
	case domain.NotificationRegistrationAccepted:
		err = d.emails.SendRegistrationAccepted(ctx, reg.Email, data)
	case domain.NotificationAttendanceConfirmed:
		err = d.emails.SendAttendanceConfirmed(ctx, reg.Email, data)
	case domain.NotificationAttendanceDeclined:
		err = d.emails.SendAttendanceDeclined(ctx, reg.Email, data)
	default:
		d.logger.Error("unknown direct notification kind", "kind", n.Kind, "registration_id", reg.ID)
		return
	}
	d.logSend(n, reg.Email, err)
}

// fanOut resolves the recipient set from the preference index and sends one
// individually-addressed email per recipient. One failed recipient never
// prevents delivery to the rest; an empty set is a no-op.
func (d *NotificationDispatcher) fanOut(ctx context.Context, n domain.Notification, category string) {
	reg, event := n.Registration, n.Event

	recipients, err := d.users.ListNotificationRecipients(ctx, category)
	if err != nil {
		d.logger.Error("resolve notification recipients failed",
			"kind", n.Kind, "category", category, "registration_id", reg.ID, "err", err)
		return
	}
	if len(recipients) == 0 {
		d.logger.Info("no recipients for notification", "kind", n.Kind, "category", category, "registration_id", reg.ID)
		return
	}

	for _, recipient := range recipients {
		var sendErr error
		switch n.Kind {
		case domain.NotificationRSVPDeclineAlert:
			sendErr = d.emails.SendRSVPDeclineAlert(ctx, recipient.Email, &domain.RSVPDeclineAlertEmailData{
				AttendeeName:   reg.FullName,
				AttendeeEmail:  reg.Email,
				EventTitle:     event.Title,
				EventStart:     event.StartTime,
				EventLocation:  event.Location,
				PreviousStatus: string(n.PreviousStatus),
			})
		case domain.NotificationNewApplicationAlert:
			sendErr = d.emails.SendNewApplicationAlert(ctx, recipient.Email, &domain.NewApplicationAlertEmailData{
				ApplicantName:  reg.FullName,
				ApplicantEmail: reg.Email,
				EventTitle:     event.Title,
				EventStart:     event.StartTime,
				RegistrationID: reg.ID,
			})
		default:
			d.logger.Error("unknown fan-out notification kind", "kind", n.Kind, "registration_id", reg.ID)
			return
		}
		d.logSend(n, recipient.Email, sendErr)
	}
}

// logSend records every send attempt, success or failure, with the
// registration id and recipient for audit.
func (d *NotificationDispatcher) logSend(n domain.Notification, recipient string, err error) {
	if err != nil {
		d.logger.Error("notification send failed",
			"kind", n.Kind, "registration_id", n.Registration.ID, "recipient", recipient, "err", err)
		return
	}
	d.logger.Info("notification sent",
		"kind", n.Kind, "registration_id", n.Registration.ID, "recipient", recipient)
}
