package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

func TestTimesheetRepositoryTotalsByStaff(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimesheetRepository(db)

	from := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"staff_id", "ordinary_hours", "overtime_hours", "weekend_hours",
		"public_holiday_hours", "evening_hours", "night_hours",
	}).
		AddRow("staff-1", 30.0, 2.0, 8.0, 0.0, 4.0, 0.0).
		AddRow("staff-2", 38.0, 0.0, 0.0, 7.5, 0.0, 0.0)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY staff_id")).
		WithArgs(from, to).
		WillReturnRows(rows)

	totals, err := repo.TotalsByStaff(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	require.Equal(t, "staff-1", totals[0].StaffID)
	require.Equal(t, 44.0, totals[0].Total())
	require.Equal(t, 45.5, totals[1].Total())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimesheetRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimesheetRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timesheet_entries")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &models.TimesheetEntry{
		StaffID:  "staff-1",
		WorkDate: time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		Category: models.CategoryWeekend,
		Hours:    6,
	}
	require.NoError(t, repo.Insert(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
