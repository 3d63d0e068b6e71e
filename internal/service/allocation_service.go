package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/allocation"
	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/repository"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
)

type allocationShiftRepository interface {
	FindByID(ctx context.Context, id string) (*models.Shift, error)
	CountCompletedByStaff(ctx context.Context, participantID string, staffIDs []string) (map[string]int, error)
}

type allocationStaffRepository interface {
	ListAvailableForShift(ctx context.Context, shiftID string, shiftDate time.Time) ([]models.Staff, error)
}

type allocationParticipantRepository interface {
	FindByID(ctx context.Context, id string) (*models.Participant, error)
}

type allocationScoreRepository interface {
	InsertBatch(ctx context.Context, shiftID string, scores []models.StaffAllocationScore) error
	ListByShift(ctx context.Context, shiftID string) ([]models.StaffAllocationScore, error)
}

type offerRepository interface {
	CreateBatch(ctx context.Context, offers []models.ShiftOffer) error
	FindByID(ctx context.Context, id string) (*models.ShiftOffer, error)
	ListByShift(ctx context.Context, shiftID string) ([]models.ShiftOffer, error)
	ListPendingByStaff(ctx context.Context, staffID string) ([]models.ShiftOffer, error)
	Accept(ctx context.Context, offerID string, now time.Time) (*models.ShiftOffer, error)
	Decline(ctx context.Context, offerID string, reason *string, now time.Time) error
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

// AllocationService runs the scoring engine over the candidate pool and
// manages the resulting offer cascade.
type AllocationService struct {
	shifts       allocationShiftRepository
	staff        allocationStaffRepository
	participants allocationParticipantRepository
	scores       allocationScoreRepository
	offers       offerRepository
	engine       *allocation.Engine
	metrics      *MetricsService
	logger       *zap.Logger
	offerFanout  int
	offerTTL     time.Duration
}

// NewAllocationService constructs an AllocationService.
func NewAllocationService(
	shifts allocationShiftRepository,
	staff allocationStaffRepository,
	participants allocationParticipantRepository,
	scores allocationScoreRepository,
	offers offerRepository,
	engine *allocation.Engine,
	metrics *MetricsService,
	logger *zap.Logger,
	offerFanout int,
	offerTTL time.Duration,
) *AllocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = allocation.NewEngine(allocation.DefaultWeights(), nil, nil, 0)
	}
	if offerFanout <= 0 {
		offerFanout = 5
	}
	if offerTTL <= 0 {
		offerTTL = 2 * time.Hour
	}
	return &AllocationService{
		shifts:       shifts,
		staff:        staff,
		participants: participants,
		scores:       scores,
		offers:       offers,
		engine:       engine,
		metrics:      metrics,
		logger:       logger,
		offerFanout:  offerFanout,
		offerTTL:     offerTTL,
	}
}

// AllocateShift scores every available candidate for an unallocated shift,
// persists the rationale and sends offers to the top-ranked eligible staff.
func (s *AllocationService) AllocateShift(ctx context.Context, shiftID string) (*models.AllocationResult, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}
	if shift.Status != models.ShiftUnallocated {
		return nil, appErrors.Clone(appErrors.ErrConflict, "shift is not awaiting allocation")
	}

	participant, err := s.participants.FindByID(ctx, shift.ParticipantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}

	pool, err := s.staff.ListAvailableForShift(ctx, shift.ID, shift.ShiftDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list available staff")
	}
	if len(pool) == 0 {
		s.logger.Warn("no available staff for shift", zap.String("shift_id", shift.ID))
		return &models.AllocationResult{ShiftID: shift.ID}, nil
	}

	staffIDs := make([]string, len(pool))
	for i, st := range pool {
		staffIDs[i] = st.ID
	}
	completed, err := s.shifts.CountCompletedByStaff(ctx, participant.ID, staffIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load continuity history")
	}

	candidates := make([]allocation.Candidate, len(pool))
	for i, st := range pool {
		candidates[i] = allocation.Candidate{
			Staff:                          st,
			CompletedShiftsWithParticipant: completed[st.ID],
		}
	}

	scores := s.engine.Score(*shift, *participant, candidates)
	if err := s.scores.InsertBatch(ctx, shift.ID, scores); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist allocation scores")
	}

	now := time.Now().UTC()
	offers := make([]models.ShiftOffer, 0, s.offerFanout)
	for _, score := range scores {
		if !score.Eligible {
			continue
		}
		offers = append(offers, models.ShiftOffer{
			ShiftID:   shift.ID,
			StaffID:   score.StaffID,
			OfferRank: len(offers) + 1,
			OfferedAt: now,
			ExpiresAt: now.Add(s.offerTTL),
		})
		if len(offers) == s.offerFanout {
			break
		}
	}

	if len(offers) > 0 {
		if err := s.offers.CreateBatch(ctx, offers); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create offers")
		}
		if s.metrics != nil {
			s.metrics.RecordOffersCreated(len(offers))
		}
	}

	s.logger.Info("shift allocation run complete",
		zap.String("shift_id", shift.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("offers_sent", len(offers)))

	return &models.AllocationResult{
		ShiftID:         shift.ID,
		CandidatesFound: len(candidates),
		OffersSent:      len(offers),
		Scores:          scores,
	}, nil
}

// RespondToOffer records a staff member's accept or decline. An accept
// atomically confirms the shift and auto-declines sibling offers.
func (s *AllocationService) RespondToOffer(ctx context.Context, offerID, staffID string, accept bool, declineReason *string) (*models.ShiftOffer, error) {
	offer, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offer")
	}
	if staffID != "" && offer.StaffID != staffID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "offer belongs to another staff member")
	}

	now := time.Now().UTC()
	if !accept {
		if err := s.offers.Decline(ctx, offer.ID, declineReason, now); err != nil {
			if errors.Is(err, repository.ErrOfferClosed) {
				return nil, appErrors.Clone(appErrors.ErrOfferClosed, "")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decline offer")
		}
		offer.ResponseStatus = models.OfferDeclined
		offer.RespondedAt = &now
		offer.DeclineReason = declineReason
		return offer, nil
	}

	accepted, err := s.offers.Accept(ctx, offer.ID, now)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOfferClosed):
			return nil, appErrors.Clone(appErrors.ErrOfferClosed, "")
		case errors.Is(err, repository.ErrOfferExpired):
			return nil, appErrors.Clone(appErrors.ErrOfferExpired, "")
		case errors.Is(err, repository.ErrShiftFilled):
			return nil, appErrors.Clone(appErrors.ErrShiftFilled, "")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offer not found")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to accept offer")
		}
	}

	if s.metrics != nil {
		s.metrics.RecordOfferAccepted()
	}
	s.logger.Info("offer accepted",
		zap.String("offer_id", accepted.ID),
		zap.String("shift_id", accepted.ShiftID),
		zap.String("staff_id", accepted.StaffID))
	return accepted, nil
}

// ExpireOffers auto-declines every pending offer past its expiry. Runs on the
// background sweep.
func (s *AllocationService) ExpireOffers(ctx context.Context) (int64, error) {
	count, err := s.offers.ExpirePending(ctx, time.Now().UTC())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expire offers")
	}
	if count > 0 {
		if s.metrics != nil {
			s.metrics.RecordOffersExpired(count)
		}
		s.logger.Info("expired pending offers", zap.Int64("count", count))
	}
	return count, nil
}

// GetShiftOffers returns the offer cascade for a shift.
func (s *AllocationService) GetShiftOffers(ctx context.Context, shiftID string) ([]models.ShiftOffer, error) {
	offers, err := s.offers.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offers")
	}
	return offers, nil
}

// GetShiftScores returns the stored scoring rationale for a shift.
func (s *AllocationService) GetShiftScores(ctx context.Context, shiftID string) ([]models.StaffAllocationScore, error) {
	scores, err := s.scores.ListByShift(ctx, shiftID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores")
	}
	return scores, nil
}

// GetStaffOffers returns a staff member's open offers.
func (s *AllocationService) GetStaffOffers(ctx context.Context, staffID string) ([]models.ShiftOffer, error) {
	offers, err := s.offers.ListPendingByStaff(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff offers")
	}
	return offers, nil
}
