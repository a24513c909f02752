package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// RegistrationEmailData holds the fields substituted into the registrant-facing
// templates: application received, registration accepted, attendance confirmed,
// and attendance declined. EventStart is rendered in the organizational
// timezone by the email service.
type RegistrationEmailData struct {
	FullName       string
	EventTitle     string
	EventStart     time.Time
	EventLocation  string
	RegistrationID string
}

// RSVPDeclineAlertEmailData holds the fields for the subscriber alert sent
// when a previously confirmed attendee declines.
type RSVPDeclineAlertEmailData struct {
	AttendeeName   string
	AttendeeEmail  string
	EventTitle     string
	EventStart     time.Time
	EventLocation  string
	PreviousStatus string
}

// NewApplicationAlertEmailData holds the fields for the subscriber alert sent
// when a new application is submitted.
type NewApplicationAlertEmailData struct {
	ApplicantName  string
	ApplicantEmail string
	EventTitle     string
	EventStart     time.Time
	RegistrationID string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendApplicationReceived(ctx context.Context, to string, data *RegistrationEmailData) error
	SendRegistrationAccepted(ctx context.Context, to string, data *RegistrationEmailData) error
	SendAttendanceConfirmed(ctx context.Context, to string, data *RegistrationEmailData) error
	SendAttendanceDeclined(ctx context.Context, to string, data *RegistrationEmailData) error
	SendRSVPDeclineAlert(ctx context.Context, to string, data *RSVPDeclineAlertEmailData) error
	SendNewApplicationAlert(ctx context.Context, to string, data *NewApplicationAlertEmailData) error
}
