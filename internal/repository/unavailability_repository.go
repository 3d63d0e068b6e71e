package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

const unavailabilityColumns = `id, staff_id, date_from, date_to, all_day, start_time, end_time, reason, status, submitted_at, decided_at`

// UnavailabilityRepository manages staff unavailability windows.
type UnavailabilityRepository struct {
	db *sqlx.DB
}

// NewUnavailabilityRepository constructs an UnavailabilityRepository.
func NewUnavailabilityRepository(db *sqlx.DB) *UnavailabilityRepository {
	return &UnavailabilityRepository{db: db}
}

// Create submits a new unavailability window in pending status.
func (r *UnavailabilityRepository) Create(ctx context.Context, u *models.StaffUnavailability) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = models.UnavailabilityPending
	}
	if u.SubmittedAt.IsZero() {
		u.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO staff_unavailability (id, staff_id, date_from, date_to, all_day, start_time, end_time, reason, status, submitted_at)
        VALUES (:id, :staff_id, :date_from, :date_to, :all_day, :start_time, :end_time, :reason, :status, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("create unavailability: %w", err)
	}
	return nil
}

// FindByID fetches an unavailability window by ID.
func (r *UnavailabilityRepository) FindByID(ctx context.Context, id string) (*models.StaffUnavailability, error) {
	query := fmt.Sprintf("SELECT %s FROM staff_unavailability WHERE id = $1 LIMIT 1", unavailabilityColumns)
	var u models.StaffUnavailability
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find unavailability by id: %w", err)
	}
	return &u, nil
}

// ListByStaff returns a staff member's windows, newest first.
func (r *UnavailabilityRepository) ListByStaff(ctx context.Context, staffID string) ([]models.StaffUnavailability, error) {
	query := fmt.Sprintf("SELECT %s FROM staff_unavailability WHERE staff_id = $1 ORDER BY date_from DESC", unavailabilityColumns)
	var windows []models.StaffUnavailability
	if err := r.db.SelectContext(ctx, &windows, query, staffID); err != nil {
		return nil, fmt.Errorf("list unavailability: %w", err)
	}
	return windows, nil
}

// ListPending returns windows awaiting a coordinator decision.
func (r *UnavailabilityRepository) ListPending(ctx context.Context) ([]models.StaffUnavailability, error) {
	query := fmt.Sprintf("SELECT %s FROM staff_unavailability WHERE status = $1 ORDER BY submitted_at", unavailabilityColumns)
	var windows []models.StaffUnavailability
	if err := r.db.SelectContext(ctx, &windows, query, models.UnavailabilityPending); err != nil {
		return nil, fmt.Errorf("list pending unavailability: %w", err)
	}
	return windows, nil
}

// Decide records an approval or rejection on a pending window.
func (r *UnavailabilityRepository) Decide(ctx context.Context, id, status string, decidedAt time.Time) error {
	const query = `UPDATE staff_unavailability SET status = $2, decided_at = $3 WHERE id = $1 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, id, status, decidedAt, models.UnavailabilityPending)
	if err != nil {
		return fmt.Errorf("decide unavailability: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
