package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

const allocationScoreColumns = `id, shift_id, staff_id, distance_km, distance_known, distance_score, skills_score, preference_score, continuity_score, reliability_score, cost_score, total_score, rank, eligible, created_at`

// AllocationScoreRepository persists the scoring rationale for each
// allocation attempt.
type AllocationScoreRepository struct {
	db *sqlx.DB
}

// NewAllocationScoreRepository constructs an AllocationScoreRepository.
func NewAllocationScoreRepository(db *sqlx.DB) *AllocationScoreRepository {
	return &AllocationScoreRepository{db: db}
}

// InsertBatch writes every candidate score for one allocation attempt.
// Earlier attempts for the same shift are replaced so the stored rationale
// always reflects the latest run.
func (r *AllocationScoreRepository) InsertBatch(ctx context.Context, shiftID string, scores []models.StaffAllocationScore) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin score insert tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM staff_allocation_scores WHERE shift_id = $1`, shiftID); err != nil {
		return fmt.Errorf("clear previous scores: %w", err)
	}

	if len(scores) > 0 {
		now := time.Now().UTC()
		for i := range scores {
			if scores[i].ID == "" {
				scores[i].ID = uuid.NewString()
			}
			if scores[i].CreatedAt.IsZero() {
				scores[i].CreatedAt = now
			}
		}
		const query = `INSERT INTO staff_allocation_scores (id, shift_id, staff_id, distance_km, distance_known, distance_score, skills_score, preference_score, continuity_score, reliability_score, cost_score, total_score, rank, eligible, created_at)
            VALUES (:id, :shift_id, :staff_id, :distance_km, :distance_known, :distance_score, :skills_score, :preference_score, :continuity_score, :reliability_score, :cost_score, :total_score, :rank, :eligible, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, scores); err != nil {
			return fmt.Errorf("insert scores: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit score insert tx: %w", err)
	}
	return nil
}

// ListByShift returns the stored scores for a shift ordered by rank.
func (r *AllocationScoreRepository) ListByShift(ctx context.Context, shiftID string) ([]models.StaffAllocationScore, error) {
	query := fmt.Sprintf("SELECT %s FROM staff_allocation_scores WHERE shift_id = $1 ORDER BY rank", allocationScoreColumns)
	var scores []models.StaffAllocationScore
	if err := r.db.SelectContext(ctx, &scores, query, shiftID); err != nil {
		return nil, fmt.Errorf("list scores by shift: %w", err)
	}
	return scores, nil
}
