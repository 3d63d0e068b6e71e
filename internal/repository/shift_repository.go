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

const shiftColumns = `id, participant_id, assigned_staff_id, shift_date, start_time, end_time, location, service_type, required_skills, status, clock_in_time, clock_out_time, actual_duration_minutes, created_at, updated_at`

// ShiftRepository manages persistence for shifts.
type ShiftRepository struct {
	db *sqlx.DB
}

// NewShiftRepository constructs a ShiftRepository.
func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// List returns shifts matching the provided filters.
func (r *ShiftRepository) List(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, int, error) {
	base := "FROM shifts WHERE 1=1"
	var args []interface{}

	if filter.ParticipantID != "" {
		base += fmt.Sprintf(" AND participant_id = $%d", len(args)+1)
		args = append(args, filter.ParticipantID)
	}
	if filter.StaffID != "" {
		base += fmt.Sprintf(" AND assigned_staff_id = $%d", len(args)+1)
		args = append(args, filter.StaffID)
	}
	if filter.Status != nil {
		base += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, *filter.Status)
	}
	if filter.DateFrom != nil {
		base += fmt.Sprintf(" AND shift_date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		base += fmt.Sprintf(" AND shift_date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY shift_date DESC, start_time LIMIT %d OFFSET %d", shiftColumns, base, size, offset)

	var shifts []models.Shift
	if err := r.db.SelectContext(ctx, &shifts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list shifts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count shifts: %w", err)
	}
	return shifts, total, nil
}

// FindByID fetches a shift by ID.
func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*models.Shift, error) {
	query := fmt.Sprintf("SELECT %s FROM shifts WHERE id = $1 LIMIT 1", shiftColumns)
	var shift models.Shift
	if err := r.db.GetContext(ctx, &shift, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find shift by id: %w", err)
	}
	return &shift, nil
}

// Create inserts a new shift in unallocated status.
func (r *ShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}
	if shift.Status == "" {
		shift.Status = models.ShiftUnallocated
	}
	now := time.Now().UTC()
	if shift.CreatedAt.IsZero() {
		shift.CreatedAt = now
	}
	shift.UpdatedAt = now
	const query = `INSERT INTO shifts (id, participant_id, assigned_staff_id, shift_date, start_time, end_time, location, service_type, required_skills, status, created_at, updated_at)
        VALUES (:id, :participant_id, :assigned_staff_id, :shift_date, :start_time, :end_time, :location, :service_type, :required_skills, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, shift); err != nil {
		return fmt.Errorf("create shift: %w", err)
	}
	return nil
}

// Update modifies scheduling fields of a shift.
func (r *ShiftRepository) Update(ctx context.Context, shift *models.Shift) error {
	shift.UpdatedAt = time.Now().UTC()
	const query = `UPDATE shifts SET shift_date = :shift_date, start_time = :start_time, end_time = :end_time, location = :location, service_type = :service_type, required_skills = :required_skills, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, shift); err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	return nil
}

// UpdateStatus transitions a shift to the given status.
func (r *ShiftRepository) UpdateStatus(ctx context.Context, id string, status models.ShiftStatus) error {
	const query = `UPDATE shifts SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update shift status: %w", err)
	}
	return nil
}

// CountCompletedTogether counts completed shifts the staff member has worked
// with the participant. Feeds the continuity score.
func (r *ShiftRepository) CountCompletedTogether(ctx context.Context, staffID, participantID string) (int, error) {
	const query = `SELECT COUNT(*) FROM shifts WHERE assigned_staff_id = $1 AND participant_id = $2 AND status = $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, staffID, participantID, models.ShiftCompleted); err != nil {
		return 0, fmt.Errorf("count completed shifts: %w", err)
	}
	return count, nil
}

// CountCompletedByStaff returns completed-shift counts for the participant
// keyed by staff ID, in one query for the whole candidate pool.
func (r *ShiftRepository) CountCompletedByStaff(ctx context.Context, participantID string, staffIDs []string) (map[string]int, error) {
	if len(staffIDs) == 0 {
		return map[string]int{}, nil
	}
	query, args, err := sqlx.In(`SELECT assigned_staff_id AS staff_id, COUNT(*) AS completed
        FROM shifts WHERE participant_id = ? AND status = ? AND assigned_staff_id IN (?)
        GROUP BY assigned_staff_id`, participantID, models.ShiftCompleted, staffIDs)
	if err != nil {
		return nil, fmt.Errorf("build completed counts query: %w", err)
	}
	query = r.db.Rebind(query)

	rows := []struct {
		StaffID   string `db:"staff_id"`
		Completed int    `db:"completed"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count completed shifts by staff: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.StaffID] = row.Completed
	}
	return counts, nil
}

// SetClockIn stamps the clock-in time and moves the shift to in_progress.
func (r *ShiftRepository) SetClockIn(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE shifts SET clock_in_time = $2, status = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, at, models.ShiftInProgress, time.Now().UTC()); err != nil {
		return fmt.Errorf("set clock in: %w", err)
	}
	return nil
}

// SetClockOut stamps the clock-out time, records the worked duration and
// completes the shift.
func (r *ShiftRepository) SetClockOut(ctx context.Context, id string, at time.Time, durationMinutes int) error {
	const query = `UPDATE shifts SET clock_out_time = $2, actual_duration_minutes = $3, status = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, at, durationMinutes, models.ShiftCompleted, time.Now().UTC()); err != nil {
		return fmt.Errorf("set clock out: %w", err)
	}
	return nil
}

// Cancel marks an unallocated or confirmed shift cancelled.
func (r *ShiftRepository) Cancel(ctx context.Context, id string) error {
	const query = `UPDATE shifts SET status = $2, updated_at = $3 WHERE id = $1 AND status IN ($4, $5)`
	res, err := r.db.ExecContext(ctx, query, id, models.ShiftCancelled, time.Now().UTC(), models.ShiftUnallocated, models.ShiftConfirmed)
	if err != nil {
		return fmt.Errorf("cancel shift: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
