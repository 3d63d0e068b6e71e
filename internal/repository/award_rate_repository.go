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

const awardRateColumns = `id, level, employment_type, base_hourly_rate, effective_from, active, created_at`

// AwardRateRepository manages the effective-dated SCHADS rate table.
type AwardRateRepository struct {
	db *sqlx.DB
}

// NewAwardRateRepository constructs an AwardRateRepository.
func NewAwardRateRepository(db *sqlx.DB) *AwardRateRepository {
	return &AwardRateRepository{db: db}
}

// FindActiveRate returns the most recent active rate for the level and
// employment type whose effective_from is on or before asOf.
func (r *AwardRateRepository) FindActiveRate(ctx context.Context, level string, employmentType models.EmploymentType, asOf time.Time) (*models.AwardRate, error) {
	query := fmt.Sprintf(`SELECT %s FROM award_rates
        WHERE level = $1 AND employment_type = $2 AND active = true AND effective_from <= $3
        ORDER BY effective_from DESC LIMIT 1`, awardRateColumns)
	var rate models.AwardRate
	if err := r.db.GetContext(ctx, &rate, query, level, employmentType, asOf); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find active rate: %w", err)
	}
	return &rate, nil
}

// List returns every rate for a level ordered by effective date, newest first.
func (r *AwardRateRepository) List(ctx context.Context, level string) ([]models.AwardRate, error) {
	query := fmt.Sprintf("SELECT %s FROM award_rates", awardRateColumns)
	args := []interface{}{}
	if level != "" {
		query += " WHERE level = $1"
		args = append(args, level)
	}
	query += " ORDER BY level, employment_type, effective_from DESC"

	var rates []models.AwardRate
	if err := r.db.SelectContext(ctx, &rates, query, args...); err != nil {
		return nil, fmt.Errorf("list award rates: %w", err)
	}
	return rates, nil
}

// Create inserts a new rate row. Existing rates for the same key stay in
// place: rate history is append-only.
func (r *AwardRateRepository) Create(ctx context.Context, rate *models.AwardRate) error {
	if rate.ID == "" {
		rate.ID = uuid.NewString()
	}
	if rate.CreatedAt.IsZero() {
		rate.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO award_rates (id, level, employment_type, base_hourly_rate, effective_from, active, created_at)
        VALUES (:id, :level, :employment_type, :base_hourly_rate, :effective_from, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rate); err != nil {
		return fmt.Errorf("create award rate: %w", err)
	}
	return nil
}

// Deactivate retires a rate row without deleting its history.
func (r *AwardRateRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE award_rates SET active = false WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate award rate: %w", err)
	}
	return nil
}
