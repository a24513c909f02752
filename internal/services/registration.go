package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventregistry/internal/domain"
)

// transitionAttempts bounds how often a status write is retried after a lost
// race: the initial attempt plus one re-read-and-reevaluate pass.
const transitionAttempts = 2

type registrationService struct {
	eventRepo      domain.EventRepository
	regRepo        domain.RegistrationRepository
	dispatcher     domain.NotificationDispatcher
	contextTimeout time.Duration
	now            func() time.Time
}

// NewRegistrationService creates the registration workflow with the given
// repositories and notification dispatcher.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	dispatcher domain.NotificationDispatcher,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:      eventRepo,
		regRepo:        regRepo,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *registrationService) Submit(ctx context.Context, eventSlug string, input domain.SubmitRegistrationInput) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", domain.ErrInvalidInput)
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetBySlug(ctx, eventSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if domain.EventHasPassed(s.now(), event.StartTime) {
		return nil, domain.ErrEventPassed
	}

	now := s.now()
	reg := &domain.Registration{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		FullName:    input.FullName,
		Email:       input.Email,
		FormData:    input.FormData,
		Status:      domain.StatusSubmitted,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return nil, domain.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.dispatcher.Enqueue(domain.Notification{
		Kind:         domain.NotificationApplicationReceived,
		Registration: reg,
		Event:        event,
	})
	s.dispatcher.Enqueue(domain.Notification{
		Kind:         domain.NotificationNewApplicationAlert,
		Registration: reg,
		Event:        event,
	})
	return reg, nil
}

func (s *registrationService) Accept(ctx context.Context, registrationID, reviewerID string) (*domain.Registration, error) {
	return s.review(ctx, registrationID, reviewerID, domain.StatusAccepted)
}

func (s *registrationService) Reject(ctx context.Context, registrationID, reviewerID string) (*domain.Registration, error) {
	return s.review(ctx, registrationID, reviewerID, domain.StatusRejected)
}

// review applies an operator decision on a submitted registration. Accepting
// notifies the registrant with an RSVP link; rejection is deliberately silent.
func (s *registrationService) review(ctx context.Context, registrationID, reviewerID string, to domain.RegistrationStatus) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	for attempt := 0; attempt < transitionAttempts; attempt++ {
		reg, err := s.regRepo.GetByID(ctx, registrationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("get registration: %w", err)
		}
		if reg.Status == to {
			// A concurrent operator already applied the same decision.
			return reg, nil
		}
		if !domain.CanTransition(reg.Status, to) {
			return nil, domain.ErrNotEligible
		}

		updated, err := s.regRepo.UpdateStatusFrom(ctx, registrationID, reg.Status, to, reviewerID, s.now())
		if err != nil {
			if errors.Is(err, domain.ErrTransitionConflict) {
				continue
			}
			return nil, fmt.Errorf("update registration status: %w", err)
		}

		if to == domain.StatusAccepted {
			event, err := s.eventRepo.GetByID(ctx, updated.EventID)
			if err != nil {
				return nil, fmt.Errorf("get event: %w", err)
			}
			s.dispatcher.Enqueue(domain.Notification{
				Kind:         domain.NotificationRegistrationAccepted,
				Registration: updated,
				Event:        event,
			})
		}
		return updated, nil
	}
	return nil, domain.ErrTransitionConflict
}

func (s *registrationService) RSVPDetails(ctx context.Context, registrationID string) (*domain.RSVPDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, event, err := s.getVisibleRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	window := domain.EvaluateRSVPWindow(s.now(), event.StartTime)
	open := !window.HasPassed && !window.WithinCutoff
	return &domain.RSVPDetails{
		Event:         event.Summary(),
		Registration:  reg,
		CurrentStatus: reg.Status,
		CanConfirm:    reg.Status == domain.StatusAccepted && open,
		CanDecline:    (reg.Status == domain.StatusAccepted || reg.Status == domain.StatusConfirmed) && open,
		IsFinal:       reg.Status.IsTerminal(),
		Window:        window,
	}, nil
}

func (s *registrationService) Confirm(ctx context.Context, registrationID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	for attempt := 0; attempt < transitionAttempts; attempt++ {
		reg, event, err := s.getVisibleRegistration(ctx, registrationID)
		if err != nil {
			return nil, err
		}
		if err := s.checkRSVPWindow(event); err != nil {
			return nil, err
		}
		if reg.Status == domain.StatusConfirmed {
			// Idempotent re-confirm: success, no state change, no email.
			return reg, nil
		}
		if reg.Status != domain.StatusAccepted {
			return nil, domain.ErrNotEligible
		}

		updated, err := s.regRepo.SetConfirmed(ctx, registrationID, s.now())
		if err != nil {
			if errors.Is(err, domain.ErrTransitionConflict) {
				continue
			}
			return nil, fmt.Errorf("confirm registration: %w", err)
		}

		s.dispatcher.Enqueue(domain.Notification{
			Kind:         domain.NotificationAttendanceConfirmed,
			Registration: updated,
			Event:        event,
		})
		return updated, nil
	}
	return nil, domain.ErrTransitionConflict
}

func (s *registrationService) Decline(ctx context.Context, registrationID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	for attempt := 0; attempt < transitionAttempts; attempt++ {
		reg, event, err := s.getVisibleRegistration(ctx, registrationID)
		if err != nil {
			return nil, err
		}
		if err := s.checkRSVPWindow(event); err != nil {
			return nil, err
		}
		if reg.Status == domain.StatusNotAttending {
			// Idempotent re-decline: success, no state change, no email.
			return reg, nil
		}
		if reg.Status != domain.StatusAccepted && reg.Status != domain.StatusConfirmed {
			return nil, domain.ErrNotEligible
		}
		if reg.CheckedIn {
			// A checked-in registration can never become not_attending.
			return nil, fmt.Errorf("%w: registration is already checked in", domain.ErrNotEligible)
		}

		previous := reg.Status
		updated, err := s.regRepo.SetNotAttending(ctx, registrationID, previous, s.now())
		if err != nil {
			if errors.Is(err, domain.ErrTransitionConflict) {
				continue
			}
			return nil, fmt.Errorf("decline registration: %w", err)
		}

		s.dispatcher.Enqueue(domain.Notification{
			Kind:         domain.NotificationAttendanceDeclined,
			Registration: updated,
			Event:        event,
		})
		if previous == domain.StatusConfirmed {
			// A previously confirmed seat is now vacated; alert subscribers.
			s.dispatcher.Enqueue(domain.Notification{
				Kind:           domain.NotificationRSVPDeclineAlert,
				Registration:   updated,
				Event:          event,
				PreviousStatus: previous,
			})
		}
		return updated, nil
	}
	return nil, domain.ErrTransitionConflict
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID string, filter domain.RegistrationListFilter, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	regs, total, err := s.regRepo.ListByEvent(ctx, eventID, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return regs, total, nil
}

func (s *registrationService) GetByID(ctx context.Context, registrationID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

// getVisibleRegistration loads a registration for the public RSVP surface
// along with its event. Unknown ids and registrations in a non-public status
// are indistinguishable: both report ErrNotFound.
func (s *registrationService) getVisibleRegistration(ctx context.Context, registrationID string) (*domain.Registration, *domain.Event, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get registration: %w", err)
	}
	if !reg.PubliclyVisible() {
		return nil, nil, domain.ErrNotFound
	}
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	return reg, event, nil
}

// checkRSVPWindow rejects a mutating RSVP action when the event has passed or
// the cutoff window has begun. A passed event is reported as passed, never as
// within cutoff.
func (s *registrationService) checkRSVPWindow(event *domain.Event) error {
	now := s.now()
	if domain.EventHasPassed(now, event.StartTime) {
		return domain.ErrEventPassed
	}
	if domain.WithinRSVPCutoff(now, event.StartTime) {
		return domain.ErrRSVPCutoff
	}
	return nil
}
