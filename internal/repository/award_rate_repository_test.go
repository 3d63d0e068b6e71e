package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAwardRateRepositoryFindActiveRate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAwardRateRepository(db)

	asOf := time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "level", "employment_type", "base_hourly_rate", "effective_from", "active", "created_at"}).
		AddRow("rate-2", "level_2", "casual", "32.50", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), true, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE level = $1 AND employment_type = $2 AND active = true AND effective_from <= $3")).
		WithArgs("level_2", models.EmploymentCasual, asOf).
		WillReturnRows(rows)

	rate, err := repo.FindActiveRate(context.Background(), "level_2", models.EmploymentCasual, asOf)
	require.NoError(t, err)
	require.Equal(t, "rate-2", rate.ID)
	require.Equal(t, "32.5", rate.BaseHourlyRate.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwardRateRepositoryFindActiveRateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAwardRateRepository(db)

	mock.ExpectQuery("FROM award_rates").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindActiveRate(context.Background(), "level_9", models.EmploymentCasual, time.Now())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
