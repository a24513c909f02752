package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventregistry/internal/domain"
)

type attendanceService struct {
	eventRepo      domain.EventRepository
	regRepo        domain.RegistrationRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAttendanceService creates the check-in guard with the given repositories.
func NewAttendanceService(eventRepo domain.EventRepository, regRepo domain.RegistrationRepository, timeout time.Duration) domain.AttendanceService {
	return &attendanceService{
		eventRepo:      eventRepo,
		regRepo:        regRepo,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *attendanceService) CheckIn(ctx context.Context, registrationID, operatorID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.checkInOne(ctx, registrationID, operatorID)
}

func (s *attendanceService) checkInOne(ctx context.Context, registrationID, operatorID string) (*domain.Registration, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	// Declined registrations get their own error: it is the case operators
	// most need to understand immediately at the door.
	if reg.Status == domain.StatusNotAttending {
		return nil, domain.ErrCheckInDeclined
	}
	if reg.CheckedIn {
		return nil, domain.ErrAlreadyCheckedIn
	}
	if reg.Status != domain.StatusAccepted && reg.Status != domain.StatusConfirmed {
		return nil, domain.ErrNotEligible
	}

	updated, err := s.regRepo.CheckIn(ctx, registrationID, operatorID, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrTransitionConflict) {
			// Someone else checked this registration in between our read and
			// write; report it as the duplicate it is.
			return nil, domain.ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("check in registration: %w", err)
	}
	return updated, nil
}

func (s *attendanceService) BulkCheckIn(ctx context.Context, registrationIDs []string, operatorID string) ([]domain.CheckInResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	results := make([]domain.CheckInResult, 0, len(registrationIDs))
	for _, id := range registrationIDs {
		result := domain.CheckInResult{RegistrationID: id}
		if _, err := s.checkInOne(ctx, id, operatorID); err != nil {
			result.Error = err.Error()
		} else {
			result.CheckedIn = true
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *attendanceService) Stats(ctx context.Context, eventID string) (*domain.CheckInStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	stats, err := s.regRepo.CheckInStats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("check-in stats: %w", err)
	}
	return stats, nil
}
