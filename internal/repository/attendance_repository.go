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

const attendanceColumns = `id, shift_id, staff_id, clock_in_time, clock_in_lat, clock_in_lng, clock_in_address, clock_out_time, clock_out_lat, clock_out_lng, clock_out_address, geo_fence_violation, requires_override, actual_duration_minutes, progress_notes, created_at, updated_at`

// AttendanceRepository manages clock-in/clock-out records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a new attendance record at clock-in.
func (r *AttendanceRepository) Create(ctx context.Context, att *models.ShiftAttendance) error {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if att.CreatedAt.IsZero() {
		att.CreatedAt = now
	}
	att.UpdatedAt = now
	const query = `INSERT INTO shift_attendance (id, shift_id, staff_id, clock_in_time, clock_in_lat, clock_in_lng, clock_in_address, geo_fence_violation, requires_override, created_at, updated_at)
        VALUES (:id, :shift_id, :staff_id, :clock_in_time, :clock_in_lat, :clock_in_lng, :clock_in_address, :geo_fence_violation, :requires_override, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, att); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// FindOpenByShift returns the attendance record for a shift that has a
// clock-in but no clock-out yet.
func (r *AttendanceRepository) FindOpenByShift(ctx context.Context, shiftID string) (*models.ShiftAttendance, error) {
	query := fmt.Sprintf("SELECT %s FROM shift_attendance WHERE shift_id = $1 AND clock_out_time IS NULL ORDER BY clock_in_time DESC LIMIT 1", attendanceColumns)
	var att models.ShiftAttendance
	if err := r.db.GetContext(ctx, &att, query, shiftID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find open attendance: %w", err)
	}
	return &att, nil
}

// ClockOut completes an attendance record.
func (r *AttendanceRepository) ClockOut(ctx context.Context, att *models.ShiftAttendance) error {
	att.UpdatedAt = time.Now().UTC()
	const query = `UPDATE shift_attendance SET clock_out_time = :clock_out_time, clock_out_lat = :clock_out_lat, clock_out_lng = :clock_out_lng, clock_out_address = :clock_out_address, actual_duration_minutes = :actual_duration_minutes, progress_notes = :progress_notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, att); err != nil {
		return fmt.Errorf("clock out attendance: %w", err)
	}
	return nil
}

// ListRequiringOverride returns flagged records awaiting supervisor review.
func (r *AttendanceRepository) ListRequiringOverride(ctx context.Context) ([]models.ShiftAttendance, error) {
	query := fmt.Sprintf("SELECT %s FROM shift_attendance WHERE requires_override = true ORDER BY clock_in_time DESC", attendanceColumns)
	var records []models.ShiftAttendance
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list override attendance: %w", err)
	}
	return records, nil
}

// ClearOverride marks a flagged record as reviewed.
func (r *AttendanceRepository) ClearOverride(ctx context.Context, id string) error {
	const query = `UPDATE shift_attendance SET requires_override = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("clear attendance override: %w", err)
	}
	return nil
}
