package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

const staffColumns = `id, first_name, last_name, email, phone, employment_type, award_level, hourly_rate, qualifications, reliability_score, latitude, longitude, bsb, account_number, active, created_at, updated_at`

// StaffRepository manages persistence for staff records.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// List returns staff matching the provided filters.
func (r *StaffRepository) List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, int, error) {
	base := "FROM staff WHERE 1=1"
	var args []interface{}

	if filter.EmploymentType != nil {
		base += fmt.Sprintf(" AND employment_type = $%d", len(args)+1)
		args = append(args, *filter.EmploymentType)
	}
	if filter.Active != nil {
		base += fmt.Sprintf(" AND active = $%d", len(args)+1)
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND (LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"last_name":   true,
		"award_level": true,
		"created_at":  true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", staffColumns, base, sortBy, order, size, offset)

	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}
	return staff, total, nil
}

// FindByID fetches a staff member by ID.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE id = $1 LIMIT 1", staffColumns)
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find staff by id: %w", err)
	}
	return &staff, nil
}

// ListAvailableForShift returns active staff with no approved unavailability
// window covering the shift date and no confirmed shift on the same date.
func (r *StaffRepository) ListAvailableForShift(ctx context.Context, shiftID string, shiftDate time.Time) ([]models.Staff, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff s
        WHERE s.active = true
        AND NOT EXISTS (
            SELECT 1 FROM staff_unavailability u
            WHERE u.staff_id = s.id AND u.status = $2
            AND $3::date BETWEEN u.date_from AND u.date_to)
        AND NOT EXISTS (
            SELECT 1 FROM shifts sh
            WHERE sh.assigned_staff_id = s.id AND sh.shift_date = $3
            AND sh.status IN ('confirmed', 'in_progress') AND sh.id <> $1)`,
		prefixColumns("s", staffColumns))

	var staff []models.Staff
	if err := r.db.SelectContext(ctx, &staff, query, shiftID, models.UnavailabilityApproved, shiftDate); err != nil {
		return nil, fmt.Errorf("list available staff: %w", err)
	}
	return staff, nil
}

// Create inserts a new staff record.
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = now
	}
	staff.UpdatedAt = now
	const query = `INSERT INTO staff (id, first_name, last_name, email, phone, employment_type, award_level, hourly_rate, qualifications, reliability_score, latitude, longitude, bsb, account_number, active, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :email, :phone, :employment_type, :award_level, :hourly_rate, :qualifications, :reliability_score, :latitude, :longitude, :bsb, :account_number, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, staff); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// Update modifies an existing staff record.
func (r *StaffRepository) Update(ctx context.Context, staff *models.Staff) error {
	staff.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone, employment_type = :employment_type, award_level = :award_level, hourly_rate = :hourly_rate, qualifications = :qualifications, reliability_score = :reliability_score, latitude = :latitude, longitude = :longitude, bsb = :bsb, account_number = :account_number, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, staff); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}

// Deactivate marks a staff member as inactive.
func (r *StaffRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE staff SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate staff: %w", err)
	}
	return nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
