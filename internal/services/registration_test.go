package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eventregistry/internal/domain"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeEventRepo struct {
	byID   map[string]*domain.Event
	bySlug map[string]*domain.Event
	err    error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	r := &fakeEventRepo{byID: map[string]*domain.Event{}, bySlug: map[string]*domain.Event{}}
	for _, ev := range events {
		r.byID[ev.ID] = ev
		r.bySlug[ev.Slug] = ev
	}
	return r
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	ev, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (r *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	ev, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

// fakeRegistrationRepo is an in-memory store with the same compare-and-swap
// semantics as the postgres repository. beforeWrite, when set, runs once just
// before the next conditional write so tests can simulate a lost race.
type fakeRegistrationRepo struct {
	mu          sync.Mutex
	regs        map[string]*domain.Registration
	createErr   error
	writeErr    error
	beforeWrite func()
}

func newFakeRegistrationRepo(regs ...*domain.Registration) *fakeRegistrationRepo {
	r := &fakeRegistrationRepo{regs: map[string]*domain.Registration{}}
	for _, reg := range regs {
		r.regs[reg.ID] = reg
	}
	return r
}

func (r *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.regs {
		if existing.EventID == reg.EventID && existing.Email == reg.Email {
			return domain.ErrDuplicateRegistration
		}
	}
	r.regs[reg.ID] = reg
	return nil
}

func (r *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) ListByEvent(ctx context.Context, eventID string, filter domain.RegistrationListFilter, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var regs []*domain.Registration
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			copied := *reg
			regs = append(regs, &copied)
		}
	}
	return regs, len(regs), nil
}

func (r *fakeRegistrationRepo) fireRaceHook() {
	if r.beforeWrite != nil {
		hook := r.beforeWrite
		r.beforeWrite = nil
		hook()
	}
}

func (r *fakeRegistrationRepo) UpdateStatusFrom(ctx context.Context, id string, from, to domain.RegistrationStatus, reviewerID string, reviewedAt time.Time) (*domain.Registration, error) {
	if r.writeErr != nil {
		return nil, r.writeErr
	}
	r.fireRaceHook()
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok || reg.Status != from {
		return nil, domain.ErrTransitionConflict
	}
	reg.Status = to
	reg.ReviewedBy = &reviewerID
	reg.ReviewedAt = &reviewedAt
	reg.UpdatedAt = reviewedAt
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) SetConfirmed(ctx context.Context, id string, confirmedAt time.Time) (*domain.Registration, error) {
	if r.writeErr != nil {
		return nil, r.writeErr
	}
	r.fireRaceHook()
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok || reg.Status != domain.StatusAccepted {
		return nil, domain.ErrTransitionConflict
	}
	reg.Status = domain.StatusConfirmed
	reg.ConfirmedAt = &confirmedAt
	reg.UpdatedAt = confirmedAt
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) SetNotAttending(ctx context.Context, id string, from domain.RegistrationStatus, declinedAt time.Time) (*domain.Registration, error) {
	if r.writeErr != nil {
		return nil, r.writeErr
	}
	r.fireRaceHook()
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok || reg.Status != from || reg.CheckedIn {
		return nil, domain.ErrTransitionConflict
	}
	reg.Status = domain.StatusNotAttending
	reg.ConfirmedAt = &declinedAt
	reg.UpdatedAt = declinedAt
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) CheckIn(ctx context.Context, id, operatorID string, at time.Time) (*domain.Registration, error) {
	if r.writeErr != nil {
		return nil, r.writeErr
	}
	r.fireRaceHook()
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok || reg.CheckedIn || (reg.Status != domain.StatusAccepted && reg.Status != domain.StatusConfirmed) {
		return nil, domain.ErrTransitionConflict
	}
	reg.CheckedIn = true
	reg.CheckedInAt = &at
	reg.CheckedInBy = &operatorID
	reg.UpdatedAt = at
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) CheckInStats(ctx context.Context, eventID string) (*domain.CheckInStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.CheckInStats{}
	for _, reg := range r.regs {
		if reg.EventID != eventID {
			continue
		}
		stats.Total++
		switch reg.Status {
		case domain.StatusSubmitted:
			stats.Submitted++
		case domain.StatusAccepted:
			stats.Accepted++
		case domain.StatusRejected:
			stats.Rejected++
		case domain.StatusConfirmed:
			stats.Confirmed++
		case domain.StatusNotAttending:
			stats.NotAttending++
		}
		if reg.CheckedIn {
			stats.CheckedIn++
		}
	}
	return stats, nil
}

// recordingDispatcher captures enqueued notification intents.
type recordingDispatcher struct {
	mu      sync.Mutex
	intents []domain.Notification
}

func (d *recordingDispatcher) Enqueue(n domain.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.intents = append(d.intents, n)
}

func (d *recordingDispatcher) kinds() []domain.NotificationKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	kinds := make([]domain.NotificationKind, 0, len(d.intents))
	for _, n := range d.intents {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func futureEvent(hours int) *domain.Event {
	return &domain.Event{
		ID:        "ev-1",
		Title:     "Winter Gala",
		Slug:      "winter-gala",
		Location:  "Hart House",
		StartTime: testNow.Add(time.Duration(hours) * time.Hour),
	}
}

func newTestRegistration(status domain.RegistrationStatus) *domain.Registration {
	return &domain.Registration{
		ID:          "reg-1",
		EventID:     "ev-1",
		FullName:    "Ada Lovelace",
		Email:       "ada@example.com",
		Status:      status,
		SubmittedAt: testNow.Add(-72 * time.Hour),
	}
}

func newTestService(events *fakeEventRepo, regs *fakeRegistrationRepo, disp *recordingDispatcher) *registrationService {
	svc := NewRegistrationService(events, regs, disp, 2*time.Second).(*registrationService)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestRegistrationService_Submit(t *testing.T) {
	t.Run("success emits received and alert intents", func(t *testing.T) {
		regs := newFakeRegistrationRepo()
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(72)), regs, disp)

		reg, err := svc.Submit(context.Background(), "winter-gala", domain.SubmitRegistrationInput{
			FullName: "Ada Lovelace",
			Email:    "Ada@Example.com",
			FormData: map[string]any{"program": "EngSci"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reg.ID == "" {
			t.Fatal("expected a generated registration id")
		}
		if reg.Status != domain.StatusSubmitted {
			t.Fatalf("expected status submitted, got %s", reg.Status)
		}
		if reg.Email != "ada@example.com" {
			t.Fatalf("expected normalized email, got %q", reg.Email)
		}
		kinds := disp.kinds()
		if len(kinds) != 2 || kinds[0] != domain.NotificationApplicationReceived || kinds[1] != domain.NotificationNewApplicationAlert {
			t.Fatalf("unexpected intents: %v", kinds)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		existing := newTestRegistration(domain.StatusSubmitted)
		regs := newFakeRegistrationRepo(existing)
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(72)), regs, disp)

		_, err := svc.Submit(context.Background(), "winter-gala", domain.SubmitRegistrationInput{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
		})
		if !errors.Is(err, domain.ErrDuplicateRegistration) {
			t.Fatalf("expected ErrDuplicateRegistration, got %v", err)
		}
		if len(disp.kinds()) != 0 {
			t.Fatal("no intents expected on rejected submission")
		}
	})

	t.Run("passed event rejected", func(t *testing.T) {
		svc := newTestService(newFakeEventRepo(futureEvent(-1)), newFakeRegistrationRepo(), &recordingDispatcher{})
		_, err := svc.Submit(context.Background(), "winter-gala", domain.SubmitRegistrationInput{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
		})
		if !errors.Is(err, domain.ErrEventPassed) {
			t.Fatalf("expected ErrEventPassed, got %v", err)
		}
	})

	t.Run("missing name rejected", func(t *testing.T) {
		svc := newTestService(newFakeEventRepo(futureEvent(72)), newFakeRegistrationRepo(), &recordingDispatcher{})
		_, err := svc.Submit(context.Background(), "winter-gala", domain.SubmitRegistrationInput{Email: "ada@example.com"})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestRegistrationService_AcceptReject(t *testing.T) {
	t.Run("accept emits acceptance email intent", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusSubmitted))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(72)), regs, disp)

		updated, err := svc.Accept(context.Background(), "reg-1", "op-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != domain.StatusAccepted {
			t.Fatalf("expected accepted, got %s", updated.Status)
		}
		if updated.ReviewedBy == nil || *updated.ReviewedBy != "op-1" {
			t.Fatal("expected reviewer to be recorded")
		}
		kinds := disp.kinds()
		if len(kinds) != 1 || kinds[0] != domain.NotificationRegistrationAccepted {
			t.Fatalf("unexpected intents: %v", kinds)
		}
	})

	t.Run("reject is silent", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusSubmitted))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(72)), regs, disp)

		updated, err := svc.Reject(context.Background(), "reg-1", "op-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != domain.StatusRejected {
			t.Fatalf("expected rejected, got %s", updated.Status)
		}
		if len(disp.kinds()) != 0 {
			t.Fatal("rejection must not emit an email intent")
		}
	})

	t.Run("accept from terminal status rejected", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusRejected))
		svc := newTestService(newFakeEventRepo(futureEvent(72)), regs, &recordingDispatcher{})
		_, err := svc.Accept(context.Background(), "reg-1", "op-1")
		if !errors.Is(err, domain.ErrNotEligible) {
			t.Fatalf("expected ErrNotEligible, got %v", err)
		}
	})

	t.Run("unknown registration", func(t *testing.T) {
		svc := newTestService(newFakeEventRepo(futureEvent(72)), newFakeRegistrationRepo(), &recordingDispatcher{})
		_, err := svc.Accept(context.Background(), "missing", "op-1")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRegistrationService_Confirm(t *testing.T) {
	t.Run("accepted registration confirms 30h out", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, disp)

		updated, err := svc.Confirm(context.Background(), "reg-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != domain.StatusConfirmed {
			t.Fatalf("expected confirmed, got %s", updated.Status)
		}
		if updated.ConfirmedAt == nil || !updated.ConfirmedAt.Equal(testNow) {
			t.Fatalf("expected confirmed_at = now, got %v", updated.ConfirmedAt)
		}
		kinds := disp.kinds()
		if len(kinds) != 1 || kinds[0] != domain.NotificationAttendanceConfirmed {
			t.Fatalf("unexpected intents: %v", kinds)
		}
	})

	t.Run("blocked within 24h cutoff", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(23)), regs, disp)

		_, err := svc.Confirm(context.Background(), "reg-1")
		if !errors.Is(err, domain.ErrRSVPCutoff) {
			t.Fatalf("expected ErrRSVPCutoff, got %v", err)
		}
		stored, _ := regs.GetByID(context.Background(), "reg-1")
		if stored.Status != domain.StatusAccepted {
			t.Fatalf("status must remain accepted, got %s", stored.Status)
		}
		if len(disp.kinds()) != 0 {
			t.Fatal("no intents expected on a rejected confirm")
		}
	})

	t.Run("passed event reported as passed, not cutoff", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		svc := newTestService(newFakeEventRepo(futureEvent(-2)), regs, &recordingDispatcher{})

		_, err := svc.Confirm(context.Background(), "reg-1")
		if !errors.Is(err, domain.ErrEventPassed) {
			t.Fatalf("expected ErrEventPassed, got %v", err)
		}
	})

	t.Run("re-confirm is an idempotent no-op", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, disp)

		if _, err := svc.Confirm(context.Background(), "reg-1"); err != nil {
			t.Fatalf("first confirm: %v", err)
		}
		second, err := svc.Confirm(context.Background(), "reg-1")
		if err != nil {
			t.Fatalf("second confirm: %v", err)
		}
		if second.Status != domain.StatusConfirmed {
			t.Fatalf("expected confirmed, got %s", second.Status)
		}
		if got := len(disp.kinds()); got != 1 {
			t.Fatalf("expected exactly one confirmation intent, got %d", got)
		}
	})

	t.Run("not eligible from not_attending", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusNotAttending))
		svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, &recordingDispatcher{})
		_, err := svc.Confirm(context.Background(), "reg-1")
		if !errors.Is(err, domain.ErrNotEligible) {
			t.Fatalf("expected ErrNotEligible, got %v", err)
		}
	})

	t.Run("hidden statuses are indistinguishable from missing", func(t *testing.T) {
		for _, status := range []domain.RegistrationStatus{domain.StatusSubmitted, domain.StatusRejected} {
			regs := newFakeRegistrationRepo(newTestRegistration(status))
			svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, &recordingDispatcher{})
			_, err := svc.Confirm(context.Background(), "reg-1")
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("status %s: expected ErrNotFound, got %v", status, err)
			}
		}
	})

	t.Run("lost race against decline resolves to not eligible", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, disp)

		// A concurrent decline lands between our read and write.
		regs.beforeWrite = func() {
			regs.mu.Lock()
			regs.regs["reg-1"].Status = domain.StatusNotAttending
			regs.mu.Unlock()
		}

		_, err := svc.Confirm(context.Background(), "reg-1")
		if !errors.Is(err, domain.ErrNotEligible) {
			t.Fatalf("expected ErrNotEligible after re-evaluation, got %v", err)
		}
		stored, _ := regs.GetByID(context.Background(), "reg-1")
		if stored.Status != domain.StatusNotAttending {
			t.Fatalf("winner must not be clobbered, got %s", stored.Status)
		}
		if len(disp.kinds()) != 0 {
			t.Fatal("loser must not emit intents")
		}
	})

	t.Run("lost race against confirm resolves idempotently", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, disp)

		regs.beforeWrite = func() {
			regs.mu.Lock()
			regs.regs["reg-1"].Status = domain.StatusConfirmed
			regs.mu.Unlock()
		}

		updated, err := svc.Confirm(context.Background(), "reg-1")
		if err != nil {
			t.Fatalf("expected idempotent success, got %v", err)
		}
		if updated.Status != domain.StatusConfirmed {
			t.Fatalf("expected confirmed, got %s", updated.Status)
		}
		if len(disp.kinds()) != 0 {
			t.Fatal("loser must not emit a second confirmation intent")
		}
	})

	t.Run("store failure is surfaced as infrastructure error", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		regs.writeErr = errors.New("db down")
		svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, &recordingDispatcher{})

		_, err := svc.Confirm(context.Background(), "reg-1")
		if err == nil || errors.Is(err, domain.ErrNotEligible) || errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected wrapped infrastructure error, got %v", err)
		}
	})
}

func TestRegistrationService_Decline(t *testing.T) {
	t.Run("decline from confirmed fans out to subscribers", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusConfirmed))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(48)), regs, disp)

		updated, err := svc.Decline(context.Background(), "reg-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != domain.StatusNotAttending {
			t.Fatalf("expected not_attending, got %s", updated.Status)
		}
		kinds := disp.kinds()
		if len(kinds) != 2 || kinds[0] != domain.NotificationAttendanceDeclined || kinds[1] != domain.NotificationRSVPDeclineAlert {
			t.Fatalf("unexpected intents: %v", kinds)
		}
		if disp.intents[1].PreviousStatus != domain.StatusConfirmed {
			t.Fatalf("alert must carry previous status, got %s", disp.intents[1].PreviousStatus)
		}
	})

	t.Run("decline from accepted never fans out", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(48)), regs, disp)

		updated, err := svc.Decline(context.Background(), "reg-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != domain.StatusNotAttending {
			t.Fatalf("expected not_attending, got %s", updated.Status)
		}
		kinds := disp.kinds()
		if len(kinds) != 1 || kinds[0] != domain.NotificationAttendanceDeclined {
			t.Fatalf("expected only the decline acknowledgement, got %v", kinds)
		}
	})

	t.Run("re-decline is an idempotent no-op", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusConfirmed))
		disp := &recordingDispatcher{}
		svc := newTestService(newFakeEventRepo(futureEvent(48)), regs, disp)

		if _, err := svc.Decline(context.Background(), "reg-1"); err != nil {
			t.Fatalf("first decline: %v", err)
		}
		intentsAfterFirst := len(disp.kinds())
		if _, err := svc.Decline(context.Background(), "reg-1"); err != nil {
			t.Fatalf("second decline: %v", err)
		}
		if got := len(disp.kinds()); got != intentsAfterFirst {
			t.Fatalf("second decline must not emit intents: %d -> %d", intentsAfterFirst, got)
		}
	})

	t.Run("checked-in registration cannot decline", func(t *testing.T) {
		reg := newTestRegistration(domain.StatusConfirmed)
		reg.CheckedIn = true
		regs := newFakeRegistrationRepo(reg)
		svc := newTestService(newFakeEventRepo(futureEvent(48)), regs, &recordingDispatcher{})

		_, err := svc.Decline(context.Background(), "reg-1")
		if !errors.Is(err, domain.ErrNotEligible) {
			t.Fatalf("expected ErrNotEligible, got %v", err)
		}
	})

	t.Run("blocked within cutoff", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusConfirmed))
		svc := newTestService(newFakeEventRepo(futureEvent(23)), regs, &recordingDispatcher{})
		_, err := svc.Decline(context.Background(), "reg-1")
		if !errors.Is(err, domain.ErrRSVPCutoff) {
			t.Fatalf("expected ErrRSVPCutoff, got %v", err)
		}
	})
}

func TestRegistrationService_RSVPDetails(t *testing.T) {
	t.Run("accepted registration 30h out", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, &recordingDispatcher{})

		details, err := svc.RSVPDetails(context.Background(), "reg-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !details.CanConfirm || !details.CanDecline {
			t.Fatalf("expected both actions available, got %+v", details)
		}
		if details.IsFinal || details.Window.HasPassed || details.Window.WithinCutoff {
			t.Fatalf("unexpected flags: %+v", details)
		}
		if details.Event.Title != "Winter Gala" {
			t.Fatalf("expected event summary, got %+v", details.Event)
		}
	})

	t.Run("read still succeeds within cutoff and reports flags", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusAccepted))
		svc := newTestService(newFakeEventRepo(futureEvent(23)), regs, &recordingDispatcher{})

		details, err := svc.RSVPDetails(context.Background(), "reg-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if details.CanConfirm || details.CanDecline {
			t.Fatal("actions must be unavailable within cutoff")
		}
		if !details.Window.WithinCutoff || details.Window.HasPassed {
			t.Fatalf("unexpected window: %+v", details.Window)
		}
	})

	t.Run("terminal status is final with no actions", func(t *testing.T) {
		regs := newFakeRegistrationRepo(newTestRegistration(domain.StatusNotAttending))
		svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, &recordingDispatcher{})

		details, err := svc.RSVPDetails(context.Background(), "reg-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !details.IsFinal || details.CanConfirm || details.CanDecline {
			t.Fatalf("unexpected flags for terminal status: %+v", details)
		}
	})

	t.Run("submitted and rejected are hidden", func(t *testing.T) {
		for _, status := range []domain.RegistrationStatus{domain.StatusSubmitted, domain.StatusRejected} {
			regs := newFakeRegistrationRepo(newTestRegistration(status))
			svc := newTestService(newFakeEventRepo(futureEvent(30)), regs, &recordingDispatcher{})
			_, err := svc.RSVPDetails(context.Background(), "reg-1")
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("status %s: expected ErrNotFound, got %v", status, err)
			}
		}
	})
}
