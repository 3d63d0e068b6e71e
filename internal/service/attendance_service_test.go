package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/models"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
)

type mockAttShiftRepo struct {
	shifts      map[string]*models.Shift
	clockedIn   []string
	clockedOut  []string
	lastMinutes int
}

func (m *mockAttShiftRepo) FindByID(ctx context.Context, id string) (*models.Shift, error) {
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttShiftRepo) SetClockIn(ctx context.Context, id string, at time.Time) error {
	m.clockedIn = append(m.clockedIn, id)
	return nil
}

func (m *mockAttShiftRepo) SetClockOut(ctx context.Context, id string, at time.Time, durationMinutes int) error {
	m.clockedOut = append(m.clockedOut, id)
	m.lastMinutes = durationMinutes
	return nil
}

type mockAttendanceRepo struct {
	created    *models.ShiftAttendance
	open       *models.ShiftAttendance
	closedOut  *models.ShiftAttendance
	overridden []string
}

func (m *mockAttendanceRepo) Create(ctx context.Context, att *models.ShiftAttendance) error {
	if att.ID == "" {
		att.ID = "att-1"
	}
	m.created = att
	return nil
}

func (m *mockAttendanceRepo) FindOpenByShift(ctx context.Context, shiftID string) (*models.ShiftAttendance, error) {
	if m.open == nil {
		return nil, sql.ErrNoRows
	}
	return m.open, nil
}

func (m *mockAttendanceRepo) ClockOut(ctx context.Context, att *models.ShiftAttendance) error {
	m.closedOut = att
	return nil
}

func (m *mockAttendanceRepo) ListRequiringOverride(ctx context.Context) ([]models.ShiftAttendance, error) {
	if m.open != nil && m.open.RequiresOverride {
		return []models.ShiftAttendance{*m.open}, nil
	}
	return nil, nil
}

func (m *mockAttendanceRepo) ClearOverride(ctx context.Context, id string) error {
	m.overridden = append(m.overridden, id)
	return nil
}

type mockTimesheetRepo struct {
	entries []models.TimesheetEntry
}

func (m *mockTimesheetRepo) Insert(ctx context.Context, entry *models.TimesheetEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func newAttendanceFixture(status models.ShiftStatus) (*AttendanceService, *mockAttShiftRepo, *mockAttendanceRepo, *mockTimesheetRepo) {
	staffID := "s1"
	shifts := &mockAttShiftRepo{shifts: map[string]*models.Shift{
		"sh1": {
			ID:              "sh1",
			ParticipantID:   "p1",
			AssignedStaffID: &staffID,
			ShiftDate:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), // Tuesday
			StartTime:       "09:00",
			EndTime:         "11:00",
			Status:          status,
		},
	}}
	participants := &mockParticipantReader{participants: map[string]*models.Participant{
		"p1": {ID: "p1", Latitude: floatPtr(-33.87), Longitude: floatPtr(151.21)},
	}}
	attendance := &mockAttendanceRepo{}
	timesheets := &mockTimesheetRepo{}
	svc := NewAttendanceService(shifts, participants, attendance, timesheets, nil, zap.NewNop(), 0.5, nil)
	return svc, shifts, attendance, timesheets
}

func TestAttendanceServiceClockInWithinFence(t *testing.T) {
	svc, shifts, attendance, _ := newAttendanceFixture(models.ShiftConfirmed)

	att, err := svc.ClockIn(context.Background(), "sh1", "s1", models.ClockInRequest{
		Location: &models.Location{Lat: -33.8701, Lng: 151.2101},
	})
	require.NoError(t, err)
	assert.False(t, att.GeoFenceViolation)
	assert.False(t, att.RequiresOverride)
	assert.Equal(t, []string{"sh1"}, shifts.clockedIn)
	require.NotNil(t, attendance.created)
}

func TestAttendanceServiceClockInOutsideFenceFlagsButProceeds(t *testing.T) {
	svc, shifts, attendance, _ := newAttendanceFixture(models.ShiftConfirmed)

	// Roughly 5 km north of the participant.
	att, err := svc.ClockIn(context.Background(), "sh1", "s1", models.ClockInRequest{
		Location: &models.Location{Lat: -33.825, Lng: 151.21},
	})
	require.NoError(t, err, "a geo-fence violation must not block the clock-in")
	assert.True(t, att.GeoFenceViolation)
	assert.True(t, att.RequiresOverride)
	assert.Equal(t, []string{"sh1"}, shifts.clockedIn)
	assert.NotNil(t, attendance.created)
}

func TestAttendanceServiceClockInWithoutLocation(t *testing.T) {
	svc, _, _, _ := newAttendanceFixture(models.ShiftConfirmed)

	att, err := svc.ClockIn(context.Background(), "sh1", "s1", models.ClockInRequest{})
	require.NoError(t, err)
	assert.False(t, att.GeoFenceViolation)
	assert.Nil(t, att.ClockInLat)
}

func TestAttendanceServiceClockInWrongStaff(t *testing.T) {
	svc, _, _, _ := newAttendanceFixture(models.ShiftConfirmed)

	_, err := svc.ClockIn(context.Background(), "sh1", "s2", models.ClockInRequest{})
	assert.Equal(t, appErrors.ErrForbidden.Code, errCode(t, err))
}

func TestAttendanceServiceClockInNotConfirmed(t *testing.T) {
	svc, _, _, _ := newAttendanceFixture(models.ShiftUnallocated)
	shifts := svc.shifts.(*mockAttShiftRepo)
	shifts.shifts["sh1"].Status = models.ShiftCompleted

	_, err := svc.ClockIn(context.Background(), "sh1", "s1", models.ClockInRequest{})
	assert.Equal(t, appErrors.ErrConflict.Code, errCode(t, err))
}

func TestAttendanceServiceClockOutWritesTimesheet(t *testing.T) {
	svc, shifts, attendance, timesheets := newAttendanceFixture(models.ShiftInProgress)
	attendance.open = &models.ShiftAttendance{
		ID:          "att-1",
		ShiftID:     "sh1",
		StaffID:     "s1",
		ClockInTime: time.Now().UTC().Add(-2 * time.Hour),
	}

	att, err := svc.ClockOut(context.Background(), "sh1", "s1", models.ClockOutRequest{})
	require.NoError(t, err)
	require.NotNil(t, att.ClockOutTime)
	require.NotNil(t, att.ActualDurationMinutes)
	assert.Equal(t, 120, *att.ActualDurationMinutes)
	assert.Equal(t, []string{"sh1"}, shifts.clockedOut)
	assert.Equal(t, 120, shifts.lastMinutes)

	require.Len(t, timesheets.entries, 1)
	entry := timesheets.entries[0]
	assert.Equal(t, "s1", entry.StaffID)
	assert.Equal(t, models.CategoryOrdinary, entry.Category)
	assert.InDelta(t, 2.0, entry.Hours, 0.01)
}

func TestAttendanceServiceClockOutWithoutOpenAttendance(t *testing.T) {
	svc, _, _, _ := newAttendanceFixture(models.ShiftInProgress)

	_, err := svc.ClockOut(context.Background(), "sh1", "s1", models.ClockOutRequest{})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errCode(t, err))
}

func TestAttendanceServiceApproveOverride(t *testing.T) {
	svc, _, attendance, _ := newAttendanceFixture(models.ShiftConfirmed)

	require.NoError(t, svc.ApproveOverride(context.Background(), "att-9"))
	assert.Equal(t, []string{"att-9"}, attendance.overridden)
}
