package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

// DashboardRepository runs the aggregate counts behind the coordinator
// dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Summary gathers the dashboard counts in one round trip.
func (r *DashboardRepository) Summary(ctx context.Context, today time.Time) (*models.DashboardSummary, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM shifts WHERE status = 'unallocated') AS unallocated_shifts,
        (SELECT COUNT(*) FROM shifts WHERE shift_date = $1 AND status NOT IN ('cancelled')) AS shifts_today,
        (SELECT COUNT(*) FROM shifts WHERE status = 'in_progress') AS shifts_in_progress,
        (SELECT COUNT(*) FROM shift_offers WHERE response_status = 'pending' AND expires_at > $2) AS pending_offers,
        (SELECT COUNT(*) FROM shift_attendance WHERE requires_override = true) AS pending_overrides,
        (SELECT COUNT(*) FROM staff_unavailability WHERE status = 'pending') AS pending_availability,
        (SELECT COUNT(*) FROM staff WHERE active = true) AS active_staff,
        (SELECT COUNT(*) FROM participants WHERE active = true) AS active_participants`

	var row struct {
		UnallocatedShifts   int `db:"unallocated_shifts"`
		ShiftsToday         int `db:"shifts_today"`
		ShiftsInProgress    int `db:"shifts_in_progress"`
		PendingOffers       int `db:"pending_offers"`
		PendingOverrides    int `db:"pending_overrides"`
		PendingAvailability int `db:"pending_availability"`
		ActiveStaff         int `db:"active_staff"`
		ActiveParticipants  int `db:"active_participants"`
	}
	if err := r.db.GetContext(ctx, &row, query, today, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}

	return &models.DashboardSummary{
		UnallocatedShifts:   row.UnallocatedShifts,
		ShiftsToday:         row.ShiftsToday,
		ShiftsInProgress:    row.ShiftsInProgress,
		PendingOffers:       row.PendingOffers,
		PendingOverrides:    row.PendingOverrides,
		PendingAvailability: row.PendingAvailability,
		ActiveStaff:         row.ActiveStaff,
		ActiveParticipants:  row.ActiveParticipants,
		GeneratedAt:         time.Now().UTC(),
	}, nil
}
