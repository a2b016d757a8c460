package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanam/internal/database"
	apperr "sanam/internal/errors"
	"sanam/internal/models"
)

const (
	testStadiumID   = "5f0c2a4e-9b1d-4c83-a1f2-3d4e5f6a7b8c"
	testBookingID   = "c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e5f"
	testBuildingID  = "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"
	testEquipmentID = "7e8f9a0b-1c2d-4e3f-8a5b-6c7d8e9f0a1b"
)

func newTestDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &database.DB{DB: db}, mock
}

func testBooking() *models.Booking {
	return &models.Booking{
		UserID:       "user-1",
		StadiumID:    testStadiumID,
		ActivityName: "ฟุตบอล",
		Status:       models.BookingPending,
		StartsAt:     time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC),
		EndsAt:       time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC),
	}
}

func bookingRow(status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "stadium_id", "activity_name", "status", "cancel_reason",
		"starts_at", "ends_at", "created_at", "updated_at",
	}).AddRow(testBookingID, "user-1", testStadiumID, "ฟุตบอล", status, "",
		time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC), now, now)
}

func expectAdvisoryLock(mock sqlmock.Sqlmock) {
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs(testStadiumID).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestBookingCreate_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	booking := testBooking()
	lines := []models.EquipmentLine{{EquipmentID: testEquipmentID, Quantity: 2}}

	mock.ExpectBegin()
	expectAdvisoryLock(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(testStadiumID, booking.StartsAt, booking.EndsAt).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(testBookingID, time.Now(), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_buildings")).
		WithArgs(testBookingID, testBuildingID).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE equipment")).
		WithArgs(testEquipmentID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_equipment")).
		WithArgs(testBookingID, testEquipmentID, 2).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE stadiums")).
		WithArgs(testStadiumID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), booking, []string{testBuildingID}, lines)
	require.NoError(t, err)
	assert.Equal(t, testBookingID, booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreate_SlotTaken(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	booking := testBooking()

	mock.ExpectBegin()
	expectAdvisoryLock(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(testStadiumID, booking.StartsAt, booking.EndsAt).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), booking, []string{testBuildingID}, nil)
	assert.Equal(t, apperr.KindSlotTaken, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreate_EquipmentUnavailableRollsBack(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	booking := testBooking()
	otherEquipmentID := "11111111-2222-4333-8444-555555555555"
	lines := []models.EquipmentLine{
		{EquipmentID: testEquipmentID, Quantity: 9},
		{EquipmentID: otherEquipmentID, Quantity: 1},
	}

	mock.ExpectBegin()
	expectAdvisoryLock(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(testBookingID, time.Now(), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO booking_buildings")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// First line is short on stock, second line fails too: both ids must
	// be reported and nothing committed.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE equipment")).
		WithArgs(testEquipmentID, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE equipment")).
		WithArgs(otherEquipmentID, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), booking, []string{testBuildingID}, lines)
	assert.Equal(t, apperr.KindEquipmentUnavailable, apperr.KindOf(err))
	assert.Equal(t, []string{testEquipmentID, otherEquipmentID}, apperr.DetailsOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreate_ExclusionViolationMapsToSlotTaken(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	booking := testBooking()

	mock.ExpectBegin()
	expectAdvisoryLock(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	// A concurrent insert slipped past the application check; the
	// storage constraint is the backstop.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), booking, []string{testBuildingID}, nil)
	assert.Equal(t, apperr.KindSlotTaken, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingConfirm_Pending(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(testBookingID).
		WillReturnRows(bookingRow(models.BookingPending))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status")).
		WithArgs(models.BookingConfirmed, testBookingID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	booking, err := repo.Confirm(context.Background(), testBookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingConfirm_NonPendingRejected(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(testBookingID).
		WillReturnRows(bookingRow(models.BookingCanceled))
	mock.ExpectRollback()

	_, err := repo.Confirm(context.Background(), testBookingID)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingConfirm_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(testBookingID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	booking, err := repo.Confirm(context.Background(), testBookingID)
	require.NoError(t, err)
	assert.Nil(t, booking)
}

func TestBookingCancel_ReleasesInventoryAndRecomputesStatus(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(testBookingID).
		WillReturnRows(bookingRow(models.BookingPending))
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_equipment")).
		WithArgs(testBookingID).
		WillReturnRows(sqlmock.NewRows([]string{"equipment_id", "quantity"}).
			AddRow(testEquipmentID, 2).
			AddRow("null", 1)) // legacy dangling reference, skipped
	mock.ExpectExec(regexp.QuoteMeta("UPDATE equipment")).
		WithArgs(testEquipmentID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status")).
		WithArgs(models.BookingCanceled, "ฝนตก", testBookingID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE stadiums")).
		WithArgs(testStadiumID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := repo.Cancel(context.Background(), testBookingID, "ฝนตก")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCanceled, booking.Status)
	assert.Equal(t, "ฝนตก", booking.CancelReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCancel_AlreadyCanceledIsNoOp(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(testBookingID).
		WillReturnRows(bookingRow(models.BookingCanceled))
	mock.ExpectCommit()

	booking, err := repo.Cancel(context.Background(), testBookingID, "again")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCanceled, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet(), "no release or update may run on re-cancel")
}

func TestBookingCancel_ReturnedRejected(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(testBookingID).
		WillReturnRows(bookingRow(models.BookingReturned))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), testBookingID, "too late")
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet(),
		"no inventory release or status update may run on a returned booking")
}

func TestBookingReset_Confirmed(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(testBookingID).
		WillReturnRows(bookingRow(models.BookingConfirmed))
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_equipment")).
		WithArgs(testBookingID).
		WillReturnRows(sqlmock.NewRows([]string{"equipment_id", "quantity"}).
			AddRow(testEquipmentID, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE equipment")).
		WithArgs(testEquipmentID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status")).
		WithArgs(models.BookingReturned, testBookingID).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE stadiums")).
		WithArgs(testStadiumID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := repo.Reset(context.Background(), testBookingID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingReturned, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingReset_FromPendingRejected(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(testBookingID).
		WillReturnRows(bookingRow(models.BookingPending))
	mock.ExpectRollback()

	_, err := repo.Reset(context.Background(), testBookingID)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingGetByID_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WithArgs(testBookingID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	booking, err := repo.GetByID(context.Background(), testBookingID)
	require.NoError(t, err)
	assert.Nil(t, booking)
}
