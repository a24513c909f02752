package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventregistry/internal/domain"
)

const registrationColumns = `id, event_id, full_name, email, form_data, status, submitted_at,
		reviewed_by, reviewed_at, confirmed_at, checked_in, checked_in_at, checked_in_by,
		created_at, updated_at`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var formData []byte
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.FullName, &reg.Email, &formData, &reg.Status, &reg.SubmittedAt,
		&reg.ReviewedBy, &reg.ReviewedAt, &reg.ConfirmedAt, &reg.CheckedIn, &reg.CheckedInAt, &reg.CheckedInBy,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &reg.FormData); err != nil {
			return nil, fmt.Errorf("decode form_data: %w", err)
		}
	}
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	formData, err := json.Marshal(reg.FormData)
	if err != nil {
		return fmt.Errorf("encode form_data: %w", err)
	}
	query := `
		INSERT INTO registrations (id, event_id, full_name, email, form_data, status, submitted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.DB.ExecContext(ctx, query,
		reg.ID, reg.EventID, reg.FullName, reg.Email, formData, reg.Status,
		reg.SubmittedAt, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string, filter domain.RegistrationListFilter, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	where := `WHERE event_id = $1`
	args := []any{eventID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM registrations ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit(), params.Offset())
	query := `SELECT ` + registrationColumns + ` FROM registrations ` + where +
		fmt.Sprintf(` ORDER BY submitted_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, total, nil
}

func (r *registrationRepository) UpdateStatusFrom(ctx context.Context, id string, from, to domain.RegistrationStatus, reviewerID string, reviewedAt time.Time) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $3, reviewed_by = $4, reviewed_at = $5, updated_at = $5
		WHERE id = $1 AND status = $2
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id, from, to, reviewerID, reviewedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransitionConflict
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) SetConfirmed(ctx context.Context, id string, confirmedAt time.Time) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $2, confirmed_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id, domain.StatusConfirmed, confirmedAt, domain.StatusAccepted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransitionConflict
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) SetNotAttending(ctx context.Context, id string, from domain.RegistrationStatus, declinedAt time.Time) (*domain.Registration, error) {
	// confirmed_at doubles as the time of the last RSVP decision, so a decline
	// stamps it too. The checked_in guard keeps a checked-in registration from
	// ever reaching not_attending.
	query := `
		UPDATE registrations
		SET status = $2, confirmed_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4 AND checked_in = FALSE
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id, domain.StatusNotAttending, declinedAt, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransitionConflict
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) CheckIn(ctx context.Context, id, operatorID string, at time.Time) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET checked_in = TRUE, checked_in_at = $3, checked_in_by = $2, updated_at = $3
		WHERE id = $1 AND checked_in = FALSE AND status = ANY($4)
		RETURNING ` + registrationColumns
	eligible := pq.Array([]string{string(domain.StatusAccepted), string(domain.StatusConfirmed)})
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id, operatorID, at, eligible))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransitionConflict
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) CheckInStats(ctx context.Context, eventID string) (*domain.CheckInStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'submitted'),
			COUNT(*) FILTER (WHERE status = 'accepted'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'not_attending'),
			COUNT(*) FILTER (WHERE checked_in)
		FROM registrations
		WHERE event_id = $1
	`
	stats := &domain.CheckInStats{}
	err := r.DB.QueryRowContext(ctx, query, eventID).Scan(
		&stats.Total, &stats.Submitted, &stats.Accepted, &stats.Rejected,
		&stats.Confirmed, &stats.NotAttending, &stats.CheckedIn,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
