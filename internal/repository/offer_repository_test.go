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

func offerRows(status models.OfferStatus, expiresAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "shift_id", "staff_id", "offer_rank", "offered_at", "expires_at",
		"response_status", "responded_at", "decline_reason", "auto_declined", "created_at", "updated_at",
	}).AddRow("offer-1", "shift-1", "staff-1", 1, time.Now(), expiresAt, status, nil, nil, false, time.Now(), time.Now())
}

func TestOfferRepositoryAccept(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferRepository(db)

	now := time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM shift_offers WHERE id = $1 FOR UPDATE")).
		WithArgs("offer-1").
		WillReturnRows(offerRows(models.OfferPending, now.Add(time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shifts SET assigned_staff_id = $2, status = $3")).
		WithArgs("shift-1", "staff-1", models.ShiftConfirmed, now, models.ShiftUnallocated).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shift_offers SET response_status = $2, responded_at = $3")).
		WithArgs("offer-1", models.OfferAccepted, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("auto_declined = true")).
		WithArgs("shift-1", models.OfferDeclined, now, "offer-1", models.OfferPending).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	offer, err := repo.Accept(context.Background(), "offer-1", now)
	require.NoError(t, err)
	require.Equal(t, models.OfferAccepted, offer.ResponseStatus)
	require.NotNil(t, offer.RespondedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepositoryAcceptShiftAlreadyFilled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferRepository(db)

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("offer-1").
		WillReturnRows(offerRows(models.OfferPending, now.Add(time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shifts SET assigned_staff_id")).
		WithArgs("shift-1", "staff-1", models.ShiftConfirmed, now, models.ShiftUnallocated).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), "offer-1", now)
	require.ErrorIs(t, err, ErrShiftFilled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepositoryAcceptAlreadyResponded(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferRepository(db)

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("offer-1").
		WillReturnRows(offerRows(models.OfferDeclined, now.Add(time.Hour)))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), "offer-1", now)
	require.ErrorIs(t, err, ErrOfferClosed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepositoryAcceptExpired(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferRepository(db)

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("offer-1").
		WillReturnRows(offerRows(models.OfferPending, now.Add(-time.Minute)))
	mock.ExpectRollback()

	_, err := repo.Accept(context.Background(), "offer-1", now)
	require.ErrorIs(t, err, ErrOfferExpired)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferRepositoryExpirePending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOfferRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("WHERE response_status = $3 AND expires_at <= $2")).
		WithArgs(models.OfferDeclined, now, models.OfferPending).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.ExpirePending(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}
