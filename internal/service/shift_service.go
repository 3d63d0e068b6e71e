package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/models"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
)

type shiftRepository interface {
	List(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, int, error)
	FindByID(ctx context.Context, id string) (*models.Shift, error)
	Create(ctx context.Context, shift *models.Shift) error
	Update(ctx context.Context, shift *models.Shift) error
	Cancel(ctx context.Context, id string) error
}

type unavailabilityRepository interface {
	Create(ctx context.Context, u *models.StaffUnavailability) error
	FindByID(ctx context.Context, id string) (*models.StaffUnavailability, error)
	ListByStaff(ctx context.Context, staffID string) ([]models.StaffUnavailability, error)
	ListPending(ctx context.Context) ([]models.StaffUnavailability, error)
	Decide(ctx context.Context, id, status string, decidedAt time.Time) error
}

// ShiftService manages the shift roster and staff unavailability windows.
type ShiftService struct {
	shifts         shiftRepository
	unavailability unavailabilityRepository
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewShiftService constructs a ShiftService.
func NewShiftService(shifts shiftRepository, unavailability unavailabilityRepository, validate *validator.Validate, logger *zap.Logger) *ShiftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ShiftService{shifts: shifts, unavailability: unavailability, validator: validate, logger: logger}
}

// List returns shifts for the filter with pagination metadata.
func (s *ShiftService) List(ctx context.Context, filter models.ShiftFilter) ([]models.Shift, *models.Pagination, error) {
	shifts, total, err := s.shifts.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shifts")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return shifts, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads one shift.
func (s *ShiftService) Get(ctx context.Context, id string) (*models.Shift, error) {
	shift, err := s.shifts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}
	return shift, nil
}

// Create schedules a new shift in unallocated status.
func (s *ShiftService) Create(ctx context.Context, shift *models.Shift) error {
	if shift.ParticipantID == "" || shift.StartTime == "" || shift.EndTime == "" {
		return appErrors.Clone(appErrors.ErrValidation, "participant, start time and end time are required")
	}
	if shift.ShiftDate.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "shift date is required")
	}
	shift.Status = models.ShiftUnallocated
	shift.AssignedStaffID = nil
	if err := s.shifts.Create(ctx, shift); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create shift")
	}
	return nil
}

// Update modifies scheduling details of an existing shift.
func (s *ShiftService) Update(ctx context.Context, shift *models.Shift) error {
	current, err := s.Get(ctx, shift.ID)
	if err != nil {
		return err
	}
	if current.Status == models.ShiftCompleted || current.Status == models.ShiftCancelled {
		return appErrors.Clone(appErrors.ErrConflict, "completed or cancelled shifts cannot be edited")
	}
	if err := s.shifts.Update(ctx, shift); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update shift")
	}
	return nil
}

// Cancel cancels a shift that has not started.
func (s *ShiftService) Cancel(ctx context.Context, id string) error {
	if err := s.shifts.Cancel(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "shift cannot be cancelled in its current state")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel shift")
	}
	return nil
}

// SubmitUnavailability records a staff unavailability window for review.
func (s *ShiftService) SubmitUnavailability(ctx context.Context, u *models.StaffUnavailability) error {
	if u.StaffID == "" || u.DateFrom.IsZero() || u.DateTo.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "staff and date range are required")
	}
	if u.DateTo.Before(u.DateFrom) {
		return appErrors.Clone(appErrors.ErrValidation, "date range end must not precede start")
	}
	if err := s.unavailability.Create(ctx, u); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit unavailability")
	}
	return nil
}

// ListUnavailability returns a staff member's windows.
func (s *ShiftService) ListUnavailability(ctx context.Context, staffID string) ([]models.StaffUnavailability, error) {
	windows, err := s.unavailability.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unavailability")
	}
	return windows, nil
}

// ListPendingUnavailability returns windows awaiting a decision.
func (s *ShiftService) ListPendingUnavailability(ctx context.Context) ([]models.StaffUnavailability, error) {
	windows, err := s.unavailability.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending unavailability")
	}
	return windows, nil
}

// DecideUnavailability approves or rejects a pending window.
func (s *ShiftService) DecideUnavailability(ctx context.Context, id string, approve bool) error {
	status := models.UnavailabilityRejected
	if approve {
		status = models.UnavailabilityApproved
	}
	if err := s.unavailability.Decide(ctx, id, status, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "unavailability window already decided")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide unavailability")
	}
	return nil
}
