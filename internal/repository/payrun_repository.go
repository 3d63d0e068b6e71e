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

const payRunColumns = `id, period_start, period_end, pay_date, status, total_gross, total_tax, total_super, total_net, bank_file_path, created_at`

const payslipColumns = `id, pay_run_id, staff_id, staff_name, gross_pay, tax_withheld, super_contribution, net_pay, ordinary_hours, overtime_hours, weekend_hours, public_holiday_hours, evening_hours, night_hours, created_at`

// PayRunRepository manages pay runs and their payslips.
type PayRunRepository struct {
	db *sqlx.DB
}

// NewPayRunRepository constructs a PayRunRepository.
func NewPayRunRepository(db *sqlx.DB) *PayRunRepository {
	return &PayRunRepository{db: db}
}

// CreateWithSlips persists a pay run and all of its payslips in one
// transaction so a run is never visible half-written.
func (r *PayRunRepository) CreateWithSlips(ctx context.Context, run *models.PayRun, slips []models.Payslip) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pay run tx: %w", err)
	}
	defer tx.Rollback()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	const runQuery = `INSERT INTO pay_runs (id, period_start, period_end, pay_date, status, total_gross, total_tax, total_super, total_net, bank_file_path, created_at)
        VALUES (:id, :period_start, :period_end, :pay_date, :status, :total_gross, :total_tax, :total_super, :total_net, :bank_file_path, :created_at)`
	if _, err := tx.NamedExecContext(ctx, runQuery, run); err != nil {
		return fmt.Errorf("create pay run: %w", err)
	}

	if len(slips) > 0 {
		for i := range slips {
			if slips[i].ID == "" {
				slips[i].ID = uuid.NewString()
			}
			slips[i].PayRunID = run.ID
			if slips[i].CreatedAt.IsZero() {
				slips[i].CreatedAt = now
			}
		}
		const slipQuery = `INSERT INTO payslips (id, pay_run_id, staff_id, staff_name, gross_pay, tax_withheld, super_contribution, net_pay, ordinary_hours, overtime_hours, weekend_hours, public_holiday_hours, evening_hours, night_hours, created_at)
            VALUES (:id, :pay_run_id, :staff_id, :staff_name, :gross_pay, :tax_withheld, :super_contribution, :net_pay, :ordinary_hours, :overtime_hours, :weekend_hours, :public_holiday_hours, :evening_hours, :night_hours, :created_at)`
		if _, err := tx.NamedExecContext(ctx, slipQuery, slips); err != nil {
			return fmt.Errorf("create payslips: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pay run tx: %w", err)
	}
	return nil
}

// FindByID fetches a pay run by ID.
func (r *PayRunRepository) FindByID(ctx context.Context, id string) (*models.PayRun, error) {
	query := fmt.Sprintf("SELECT %s FROM pay_runs WHERE id = $1 LIMIT 1", payRunColumns)
	var run models.PayRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find pay run by id: %w", err)
	}
	return &run, nil
}

// List returns pay runs newest first.
func (r *PayRunRepository) List(ctx context.Context, limit int) ([]models.PayRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf("SELECT %s FROM pay_runs ORDER BY created_at DESC LIMIT %d", payRunColumns, limit)
	var runs []models.PayRun
	if err := r.db.SelectContext(ctx, &runs, query); err != nil {
		return nil, fmt.Errorf("list pay runs: %w", err)
	}
	return runs, nil
}

// ListPayslips returns every payslip in a run ordered by staff name.
func (r *PayRunRepository) ListPayslips(ctx context.Context, payRunID string) ([]models.Payslip, error) {
	query := fmt.Sprintf("SELECT %s FROM payslips WHERE pay_run_id = $1 ORDER BY staff_name", payslipColumns)
	var slips []models.Payslip
	if err := r.db.SelectContext(ctx, &slips, query, payRunID); err != nil {
		return nil, fmt.Errorf("list payslips: %w", err)
	}
	return slips, nil
}

// UpdateBankFile stores the rendered bank file path against the run.
func (r *PayRunRepository) UpdateBankFile(ctx context.Context, id, path string) error {
	const query = `UPDATE pay_runs SET bank_file_path = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path); err != nil {
		return fmt.Errorf("update bank file path: %w", err)
	}
	return nil
}
