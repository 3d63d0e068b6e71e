package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

// TimesheetRepository manages categorised worked-hours entries.
type TimesheetRepository struct {
	db *sqlx.DB
}

// NewTimesheetRepository constructs a TimesheetRepository.
func NewTimesheetRepository(db *sqlx.DB) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

// Insert records one categorised block of hours.
func (r *TimesheetRepository) Insert(ctx context.Context, entry *models.TimesheetEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO timesheet_entries (id, staff_id, shift_id, work_date, category, hours, created_at)
        VALUES (:id, :staff_id, :shift_id, :work_date, :category, :hours, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert timesheet entry: %w", err)
	}
	return nil
}

// ListByStaff returns a staff member's entries within a period, oldest first.
func (r *TimesheetRepository) ListByStaff(ctx context.Context, staffID string, from, to time.Time) ([]models.TimesheetEntry, error) {
	const query = `SELECT id, staff_id, shift_id, work_date, category, hours, created_at
        FROM timesheet_entries WHERE staff_id = $1 AND work_date >= $2 AND work_date <= $3 ORDER BY work_date, created_at`
	var entries []models.TimesheetEntry
	if err := r.db.SelectContext(ctx, &entries, query, staffID, from, to); err != nil {
		return nil, fmt.Errorf("list timesheet entries: %w", err)
	}
	return entries, nil
}

// TotalsByStaff pivots every staff member's entries in a period into the six
// category columns the pay engine consumes. Staff with no entries in the
// period are absent from the result.
func (r *TimesheetRepository) TotalsByStaff(ctx context.Context, from, to time.Time) ([]models.StaffPeriodHours, error) {
	const query = `SELECT staff_id,
        COALESCE(SUM(hours) FILTER (WHERE category = 'ordinary'), 0) AS ordinary_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'overtime'), 0) AS overtime_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'weekend'), 0) AS weekend_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'public_holiday'), 0) AS public_holiday_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'evening'), 0) AS evening_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'night'), 0) AS night_hours
        FROM timesheet_entries WHERE work_date >= $1 AND work_date <= $2
        GROUP BY staff_id ORDER BY staff_id`
	var totals []models.StaffPeriodHours
	if err := r.db.SelectContext(ctx, &totals, query, from, to); err != nil {
		return nil, fmt.Errorf("timesheet totals by staff: %w", err)
	}
	return totals, nil
}

// TotalsForStaff aggregates a single staff member's period hours.
func (r *TimesheetRepository) TotalsForStaff(ctx context.Context, staffID string, from, to time.Time) (*models.StaffPeriodHours, error) {
	const query = `SELECT $1 AS staff_id,
        COALESCE(SUM(hours) FILTER (WHERE category = 'ordinary'), 0) AS ordinary_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'overtime'), 0) AS overtime_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'weekend'), 0) AS weekend_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'public_holiday'), 0) AS public_holiday_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'evening'), 0) AS evening_hours,
        COALESCE(SUM(hours) FILTER (WHERE category = 'night'), 0) AS night_hours
        FROM timesheet_entries WHERE staff_id = $1 AND work_date >= $2 AND work_date <= $3`
	var totals models.StaffPeriodHours
	if err := r.db.GetContext(ctx, &totals, query, staffID, from, to); err != nil {
		return nil, fmt.Errorf("timesheet totals for staff: %w", err)
	}
	return &totals, nil
}
