package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"eventregistry/internal/domain"
)

// eventTimeLayout renders event instants for email bodies, e.g.
// "Wednesday, January 15, 2025 at 6:00 PM EST".
const eventTimeLayout = "Monday, January 2, 2006 at 3:04 PM MST"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	baseURL  string
	loc      *time.Location
}

// NewEmailService returns an EmailService that renders templates and sends
// through the given Mailer. Event times are rendered in loc, the fixed
// organizational timezone. baseURL is used to build RSVP links.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, baseURL string, loc *time.Location) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, baseURL: baseURL, loc: loc}
}

// registrationTemplateData is the payload shared by the registrant-facing
// templates.
type registrationTemplateData struct {
	FullName      string
	EventTitle    string
	EventDateTime string
	EventLocation string
	RSVPLink      string
}

func (s *emailService) formatEventTime(t time.Time) string {
	return t.In(s.loc).Format(eventTimeLayout)
}

func (s *emailService) rsvpLink(registrationID string) string {
	return fmt.Sprintf("%s/rsvp/%s", s.baseURL, registrationID)
}

func (s *emailService) registrationData(data *domain.RegistrationEmailData, withLink bool) registrationTemplateData {
	payload := registrationTemplateData{
		FullName:      data.FullName,
		EventTitle:    data.EventTitle,
		EventDateTime: s.formatEventTime(data.EventStart),
		EventLocation: data.EventLocation,
	}
	if withLink {
		payload.RSVPLink = s.rsvpLink(data.RegistrationID)
	}
	return payload
}

func (s *emailService) send(templateName, to string, payload any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, payload)
	if err != nil {
		return fmt.Errorf("render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", templateName, err)
	}
	log.Printf("[EMAIL] %s email sent to %s", templateName, to)
	return nil
}

func (s *emailService) SendApplicationReceived(ctx context.Context, to string, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("application received data is nil")
	}
	return s.send("application_received", to, s.registrationData(data, false))
}

func (s *emailService) SendRegistrationAccepted(ctx context.Context, to string, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("registration accepted data is nil")
	}
	return s.send("registration_accepted", to, s.registrationData(data, true))
}

func (s *emailService) SendAttendanceConfirmed(ctx context.Context, to string, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("attendance confirmed data is nil")
	}
	return s.send("attendance_confirmed", to, s.registrationData(data, false))
}

func (s *emailService) SendAttendanceDeclined(ctx context.Context, to string, data *domain.RegistrationEmailData) error {
	if data == nil {
		return fmt.Errorf("attendance declined data is nil")
	}
	return s.send("attendance_declined", to, s.registrationData(data, false))
}

// rsvpDeclineAlertTemplateData is the payload for the subscriber alert.
type rsvpDeclineAlertTemplateData struct {
	AttendeeName   string
	AttendeeEmail  string
	EventTitle     string
	EventDateTime  string
	EventLocation  string
	PreviousStatus string
}

func (s *emailService) SendRSVPDeclineAlert(ctx context.Context, to string, data *domain.RSVPDeclineAlertEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp decline alert data is nil")
	}
	return s.send("rsvp_decline_alert", to, rsvpDeclineAlertTemplateData{
		AttendeeName:   data.AttendeeName,
		AttendeeEmail:  data.AttendeeEmail,
		EventTitle:     data.EventTitle,
		EventDateTime:  s.formatEventTime(data.EventStart),
		EventLocation:  data.EventLocation,
		PreviousStatus: data.PreviousStatus,
	})
}

// newApplicationAlertTemplateData is the payload for the new-application alert.
type newApplicationAlertTemplateData struct {
	ApplicantName    string
	ApplicantEmail   string
	EventTitle       string
	EventDateTime    string
	RegistrationLink string
}

func (s *emailService) SendNewApplicationAlert(ctx context.Context, to string, data *domain.NewApplicationAlertEmailData) error {
	if data == nil {
		return fmt.Errorf("new application alert data is nil")
	}
	return s.send("new_application_alert", to, newApplicationAlertTemplateData{
		ApplicantName:    data.ApplicantName,
		ApplicantEmail:   data.ApplicantEmail,
		EventTitle:       data.EventTitle,
		EventDateTime:    s.formatEventTime(data.EventStart),
		RegistrationLink: fmt.Sprintf("%s/registrations/%s", s.baseURL, data.RegistrationID),
	})
}
