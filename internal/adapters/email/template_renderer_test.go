package email

import (
	"strings"
	"testing"
)

func TestTemplateRenderer_AllTemplates(t *testing.T) {
	r := NewTemplateRenderer()

	registrant := struct {
		FullName      string
		EventTitle    string
		EventDateTime string
		EventLocation string
		RSVPLink      string
	}{
		FullName:      "Ada Lovelace",
		EventTitle:    "Winter Gala",
		EventDateTime: "Wednesday, January 15, 2025 at 6:00 PM EST",
		EventLocation: "Hart House",
		RSVPLink:      "https://events.example.com/rsvp/reg-1",
	}
	alert := struct {
		AttendeeName     string
		AttendeeEmail    string
		ApplicantName    string
		ApplicantEmail   string
		EventTitle       string
		EventDateTime    string
		EventLocation    string
		PreviousStatus   string
		RegistrationLink string
	}{
		AttendeeName:     "Ada Lovelace",
		AttendeeEmail:    "ada@example.com",
		ApplicantName:    "Ada Lovelace",
		ApplicantEmail:   "ada@example.com",
		EventTitle:       "Winter Gala",
		EventDateTime:    "Wednesday, January 15, 2025 at 6:00 PM EST",
		EventLocation:    "Hart House",
		PreviousStatus:   "confirmed",
		RegistrationLink: "https://events.example.com/registrations/reg-1",
	}

	cases := []struct {
		template string
		data     any
		wantIn   string
	}{
		{"application_received", registrant, "Winter Gala"},
		{"registration_accepted", registrant, "https://events.example.com/rsvp/reg-1"},
		{"attendance_confirmed", registrant, "confirmed"},
		{"attendance_declined", registrant, "Winter Gala"},
		{"rsvp_decline_alert", alert, "ada@example.com"},
		{"new_application_alert", alert, "https://events.example.com/registrations/reg-1"},
	}
	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			subject, html, text, err := r.Render(tc.template, tc.data)
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if subject == "" || html == "" || text == "" {
				t.Fatal("expected non-empty subject, html, and text")
			}
			if !strings.Contains(html, tc.wantIn) && !strings.Contains(text, tc.wantIn) {
				t.Fatalf("expected rendered output to contain %q", tc.wantIn)
			}
		})
	}
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()
	if _, _, _, err := r.Render("does_not_exist", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
