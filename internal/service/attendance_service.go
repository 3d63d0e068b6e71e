package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/allocation"
	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/schads"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
)

type attendanceShiftRepository interface {
	FindByID(ctx context.Context, id string) (*models.Shift, error)
	SetClockIn(ctx context.Context, id string, at time.Time) error
	SetClockOut(ctx context.Context, id string, at time.Time, durationMinutes int) error
}

type attendanceRepository interface {
	Create(ctx context.Context, att *models.ShiftAttendance) error
	FindOpenByShift(ctx context.Context, shiftID string) (*models.ShiftAttendance, error)
	ClockOut(ctx context.Context, att *models.ShiftAttendance) error
	ListRequiringOverride(ctx context.Context) ([]models.ShiftAttendance, error)
	ClearOverride(ctx context.Context, id string) error
}

type timesheetRepository interface {
	Insert(ctx context.Context, entry *models.TimesheetEntry) error
}

// AttendanceService handles clock-in and clock-out with geo-fence checks and
// writes the categorised timesheet entry on clock-out.
type AttendanceService struct {
	shifts         attendanceShiftRepository
	participants   allocationParticipantRepository
	attendance     attendanceRepository
	timesheets     timesheetRepository
	metrics        *MetricsService
	logger         *zap.Logger
	geoFenceKm     float64
	publicHolidays map[string]struct{}
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(
	shifts attendanceShiftRepository,
	participants allocationParticipantRepository,
	attendance attendanceRepository,
	timesheets timesheetRepository,
	metrics *MetricsService,
	logger *zap.Logger,
	geoFenceKm float64,
	publicHolidays []string,
) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if geoFenceKm <= 0 {
		geoFenceKm = 0.5
	}
	return &AttendanceService{
		shifts:         shifts,
		participants:   participants,
		attendance:     attendance,
		timesheets:     timesheets,
		metrics:        metrics,
		logger:         logger,
		geoFenceKm:     geoFenceKm,
		publicHolidays: schads.PublicHolidaySet(publicHolidays),
	}
}

// ClockIn starts a confirmed shift. A position outside the participant
// geo-fence never blocks the clock-in; it flags the record for supervisor
// review.
func (s *AttendanceService) ClockIn(ctx context.Context, shiftID, staffID string, req models.ClockInRequest) (*models.ShiftAttendance, error) {
	shift, err := s.loadShiftForStaff(ctx, shiftID, staffID)
	if err != nil {
		return nil, err
	}
	if shift.Status != models.ShiftConfirmed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "shift is not ready to start")
	}

	now := time.Now().UTC()
	att := &models.ShiftAttendance{
		ShiftID:     shift.ID,
		StaffID:     staffID,
		ClockInTime: now,
	}

	if req.Location != nil {
		att.ClockInLat = &req.Location.Lat
		att.ClockInLng = &req.Location.Lng
		if req.Location.Address != "" {
			att.ClockInAddress = &req.Location.Address
		}

		participant, err := s.participants.FindByID(ctx, shift.ParticipantID)
		if err == nil && participant.Latitude != nil && participant.Longitude != nil {
			dist := allocation.DistanceKm(*participant.Latitude, *participant.Longitude, req.Location.Lat, req.Location.Lng)
			if dist > s.geoFenceKm {
				att.GeoFenceViolation = true
				att.RequiresOverride = true
				if s.metrics != nil {
					s.metrics.RecordGeoFenceViolation()
				}
				s.logger.Warn("clock-in outside geo-fence",
					zap.String("shift_id", shift.ID),
					zap.String("staff_id", staffID),
					zap.Float64("distance_km", dist))
			}
		}
	}

	if err := s.attendance.Create(ctx, att); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record clock-in")
	}
	if err := s.shifts.SetClockIn(ctx, shift.ID, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start shift")
	}

	return att, nil
}

// ClockOut completes an in-progress shift, stamps the worked duration and
// writes the categorised timesheet entry the pay run will consume.
func (s *AttendanceService) ClockOut(ctx context.Context, shiftID, staffID string, req models.ClockOutRequest) (*models.ShiftAttendance, error) {
	shift, err := s.loadShiftForStaff(ctx, shiftID, staffID)
	if err != nil {
		return nil, err
	}
	if shift.Status != models.ShiftInProgress {
		return nil, appErrors.Clone(appErrors.ErrConflict, "shift is not in progress")
	}

	att, err := s.attendance.FindOpenByShift(ctx, shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no open clock-in for shift")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	now := time.Now().UTC()
	duration := int(now.Sub(att.ClockInTime).Minutes())
	if duration < 0 {
		duration = 0
	}

	att.ClockOutTime = &now
	att.ActualDurationMinutes = &duration
	att.ProgressNotes = req.ProgressNotes
	if req.Location != nil {
		att.ClockOutLat = &req.Location.Lat
		att.ClockOutLng = &req.Location.Lng
		if req.Location.Address != "" {
			att.ClockOutAddress = &req.Location.Address
		}
	}

	if err := s.attendance.ClockOut(ctx, att); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record clock-out")
	}
	if err := s.shifts.SetClockOut(ctx, shift.ID, now, duration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete shift")
	}

	category := schads.Categorize(shift.ShiftDate, shift.StartTime, s.publicHolidays)
	hours := math.Round(float64(duration)/60*100) / 100
	entry := &models.TimesheetEntry{
		StaffID:  staffID,
		ShiftID:  &shift.ID,
		WorkDate: shift.ShiftDate,
		Category: category,
		Hours:    hours,
	}
	if err := s.timesheets.Insert(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write timesheet entry")
	}

	s.logger.Info("shift completed",
		zap.String("shift_id", shift.ID),
		zap.String("staff_id", staffID),
		zap.Int("duration_minutes", duration),
		zap.String("category", string(category)))

	return att, nil
}

// ListOverrides returns flagged attendance records awaiting review.
func (s *AttendanceService) ListOverrides(ctx context.Context) ([]models.ShiftAttendance, error) {
	records, err := s.attendance.ListRequiringOverride(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list overrides")
	}
	return records, nil
}

// ApproveOverride clears the review flag on a geo-fence violation.
func (s *AttendanceService) ApproveOverride(ctx context.Context, attendanceID string) error {
	if err := s.attendance.ClearOverride(ctx, attendanceID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve override")
	}
	return nil
}

func (s *AttendanceService) loadShiftForStaff(ctx context.Context, shiftID, staffID string) (*models.Shift, error) {
	shift, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift")
	}
	if shift.AssignedStaffID == nil || *shift.AssignedStaffID != staffID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "shift is not assigned to this staff member")
	}
	return shift, nil
}
