package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

// Sentinel errors for offer state transitions. The service layer maps these
// onto API error codes.
var (
	ErrOfferClosed  = errors.New("offer already responded to")
	ErrOfferExpired = errors.New("offer has expired")
	ErrShiftFilled  = errors.New("shift already filled")
)

const offerColumns = `id, shift_id, staff_id, offer_rank, offered_at, expires_at, response_status, responded_at, decline_reason, auto_declined, created_at, updated_at`

// OfferRepository manages shift offers and their lifecycle.
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository constructs an OfferRepository.
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// CreateBatch inserts one offer row per candidate in a single statement.
func (r *OfferRepository) CreateBatch(ctx context.Context, offers []models.ShiftOffer) error {
	if len(offers) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range offers {
		if offers[i].ID == "" {
			offers[i].ID = uuid.NewString()
		}
		if offers[i].ResponseStatus == "" {
			offers[i].ResponseStatus = models.OfferPending
		}
		if offers[i].CreatedAt.IsZero() {
			offers[i].CreatedAt = now
		}
		offers[i].UpdatedAt = now
	}
	const query = `INSERT INTO shift_offers (id, shift_id, staff_id, offer_rank, offered_at, expires_at, response_status, auto_declined, created_at, updated_at)
        VALUES (:id, :shift_id, :staff_id, :offer_rank, :offered_at, :expires_at, :response_status, :auto_declined, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, offers); err != nil {
		return fmt.Errorf("create offers: %w", err)
	}
	return nil
}

// FindByID fetches an offer by ID.
func (r *OfferRepository) FindByID(ctx context.Context, id string) (*models.ShiftOffer, error) {
	query := fmt.Sprintf("SELECT %s FROM shift_offers WHERE id = $1 LIMIT 1", offerColumns)
	var offer models.ShiftOffer
	if err := r.db.GetContext(ctx, &offer, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find offer by id: %w", err)
	}
	return &offer, nil
}

// ListByShift returns all offers for a shift ordered by rank.
func (r *OfferRepository) ListByShift(ctx context.Context, shiftID string) ([]models.ShiftOffer, error) {
	query := fmt.Sprintf("SELECT %s FROM shift_offers WHERE shift_id = $1 ORDER BY offer_rank", offerColumns)
	var offers []models.ShiftOffer
	if err := r.db.SelectContext(ctx, &offers, query, shiftID); err != nil {
		return nil, fmt.Errorf("list offers by shift: %w", err)
	}
	return offers, nil
}

// ListPendingByStaff returns a staff member's open offers, soonest to expire
// first.
func (r *OfferRepository) ListPendingByStaff(ctx context.Context, staffID string) ([]models.ShiftOffer, error) {
	query := fmt.Sprintf("SELECT %s FROM shift_offers WHERE staff_id = $1 AND response_status = $2 AND expires_at > $3 ORDER BY expires_at", offerColumns)
	var offers []models.ShiftOffer
	if err := r.db.SelectContext(ctx, &offers, query, staffID, models.OfferPending, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("list pending offers: %w", err)
	}
	return offers, nil
}

// Accept atomically accepts an offer: the offer moves to accepted, the shift
// is assigned and confirmed, and every sibling pending offer is auto-declined.
// The shift assignment is conditional on it still being unallocated, so two
// concurrent accepts can never both win.
func (r *OfferRepository) Accept(ctx context.Context, offerID string, now time.Time) (*models.ShiftOffer, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin accept tx: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("SELECT %s FROM shift_offers WHERE id = $1 FOR UPDATE", offerColumns)
	var offer models.ShiftOffer
	if err := tx.GetContext(ctx, &offer, query, offerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock offer: %w", err)
	}

	if offer.ResponseStatus != models.OfferPending {
		return nil, ErrOfferClosed
	}
	if now.After(offer.ExpiresAt) {
		return nil, ErrOfferExpired
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE shifts SET assigned_staff_id = $2, status = $3, updated_at = $4 WHERE id = $1 AND status = $5`,
		offer.ShiftID, offer.StaffID, models.ShiftConfirmed, now, models.ShiftUnallocated)
	if err != nil {
		return nil, fmt.Errorf("assign shift: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrShiftFilled
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE shift_offers SET response_status = $2, responded_at = $3, updated_at = $3 WHERE id = $1`,
		offer.ID, models.OfferAccepted, now); err != nil {
		return nil, fmt.Errorf("accept offer: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE shift_offers SET response_status = $2, auto_declined = true, responded_at = $3, updated_at = $3 WHERE shift_id = $1 AND id <> $4 AND response_status = $5`,
		offer.ShiftID, models.OfferDeclined, now, offer.ID, models.OfferPending); err != nil {
		return nil, fmt.Errorf("auto-decline sibling offers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit accept tx: %w", err)
	}

	offer.ResponseStatus = models.OfferAccepted
	offer.RespondedAt = &now
	offer.UpdatedAt = now
	return &offer, nil
}

// Decline records a manual decline. Declining is only valid while the offer
// is pending.
func (r *OfferRepository) Decline(ctx context.Context, offerID string, reason *string, now time.Time) error {
	const query = `UPDATE shift_offers SET response_status = $2, decline_reason = $3, responded_at = $4, updated_at = $4 WHERE id = $1 AND response_status = $5`
	res, err := r.db.ExecContext(ctx, query, offerID, models.OfferDeclined, reason, now, models.OfferPending)
	if err != nil {
		return fmt.Errorf("decline offer: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrOfferClosed
	}
	return nil
}

// ExpirePending auto-declines every pending offer past its expiry and returns
// how many were closed.
func (r *OfferRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE shift_offers SET response_status = $1, auto_declined = true, responded_at = $2, updated_at = $2 WHERE response_status = $3 AND expires_at <= $2`
	res, err := r.db.ExecContext(ctx, query, models.OfferDeclined, now, models.OfferPending)
	if err != nil {
		return 0, fmt.Errorf("expire offers: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire offers affected: %w", err)
	}
	return affected, nil
}
