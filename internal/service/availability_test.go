package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sanam/internal/database"
	apperr "sanam/internal/errors"
	"sanam/internal/models"
	"sanam/internal/repository"
)

func day(d int) time.Time {
	return time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDayStatuses_PastBookedFree(t *testing.T) {
	today := day(10)
	bookings := []models.Booking{
		{StartsAt: time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC), EndsAt: time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)},
		{StartsAt: time.Date(2025, 9, 20, 8, 0, 0, 0, time.UTC), EndsAt: time.Date(2025, 9, 20, 9, 0, 0, 0, time.UTC)},
	}

	days := buildDayStatuses(2025, time.September, today, bookings)
	require.Len(t, days, 30)

	byDay := make(map[int]string, len(days))
	for _, d := range days {
		byDay[d.Day] = d.Status
	}

	assert.Equal(t, models.DayPast, byDay[1])
	assert.Equal(t, models.DayPast, byDay[9])
	assert.Equal(t, models.DayFree, byDay[10], "today itself is not past")
	assert.Equal(t, models.DayFree, byDay[14])
	assert.Equal(t, models.DayBooked, byDay[15])
	assert.Equal(t, models.DayBooked, byDay[16], "end day is booked inclusively")
	assert.Equal(t, models.DayFree, byDay[17])
	assert.Equal(t, models.DayBooked, byDay[20])
	assert.Equal(t, models.DayFree, byDay[30])
}

func TestBuildDayStatuses_PastWinsOverBooked(t *testing.T) {
	today := day(20)
	bookings := []models.Booking{
		{StartsAt: day(15), EndsAt: day(25)},
	}

	days := buildDayStatuses(2025, time.September, today, bookings)

	assert.Equal(t, models.DayPast, days[15].Status, "day 16 is before today even though booked")
	assert.Equal(t, models.DayBooked, days[20].Status, "day 21 is booked")
}

func TestBuildDayStatuses_DayCount(t *testing.T) {
	assert.Len(t, buildDayStatuses(2025, time.February, day(1), nil), 28)
	assert.Len(t, buildDayStatuses(2024, time.February, day(1), nil), 29)
	assert.Len(t, buildDayStatuses(2025, time.December, day(1), nil), 31)
}

func newMockedAvailability(t *testing.T) (*AvailabilityService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := &database.DB{DB: db}
	svc := NewAvailabilityService(
		repository.NewBookingRepository(wrapped),
		repository.NewStadiumRepository(wrapped),
	)
	return svc, mock
}

func stadiumRows(status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "description", "contact", "status", "image_url", "created_at", "updated_at",
	}).AddRow(testStadiumID, "สนามกีฬากลาง", nil, nil, status, nil, now, now)
}

func TestMonthView_StadiumNotFound(t *testing.T) {
	svc, mock := newMockedAvailability(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM stadiums")).
		WithArgs(testStadiumID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.MonthView(context.Background(), testStadiumID, 2025, 9)
	assert.Equal(t, apperr.KindStadiumNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthView_InvalidInput(t *testing.T) {
	svc, _ := newMockedAvailability(t)

	_, err := svc.MonthView(context.Background(), "nope", 2025, 9)
	assert.Equal(t, apperr.KindInvalidID, apperr.KindOf(err))

	_, err = svc.MonthView(context.Background(), testStadiumID, 2025, 13)
	assert.Equal(t, apperr.KindInvalidTimeRange, apperr.KindOf(err))
}

func TestMonthView_OpenOverrideSkipsBookings(t *testing.T) {
	svc, mock := newMockedAvailability(t)
	svc.now = func() time.Time { return day(10) }

	// Only the stadium lookup runs; the booking set is never consulted
	// for an administratively open stadium.
	mock.ExpectQuery(regexp.QuoteMeta("FROM stadiums")).
		WithArgs(testStadiumID).
		WillReturnRows(stadiumRows(models.StadiumOpenOverride))

	view, err := svc.MonthView(context.Background(), testStadiumID, 2025, 9)
	require.NoError(t, err)

	for _, d := range view.Days {
		if d.Day < 10 {
			assert.Equal(t, models.DayPast, d.Status)
		} else {
			assert.Equal(t, models.DayFree, d.Status)
		}
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthView_ProjectsActiveBookings(t *testing.T) {
	svc, mock := newMockedAvailability(t)
	svc.now = func() time.Time { return day(1) }

	mock.ExpectQuery(regexp.QuoteMeta("FROM stadiums")).
		WithArgs(testStadiumID).
		WillReturnRows(stadiumRows(models.StadiumIsBooking))

	now := time.Now()
	bookingRows := sqlmock.NewRows([]string{
		"id", "user_id", "stadium_id", "activity_name", "status", "cancel_reason",
		"starts_at", "ends_at", "created_at", "updated_at",
	}).AddRow("b1", "user-1", testStadiumID, "กีฬาสี", models.BookingPending, "",
		time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC), now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WillReturnRows(bookingRows)

	view, err := svc.MonthView(context.Background(), testStadiumID, 2025, 9)
	require.NoError(t, err)
	require.Len(t, view.Days, 30)

	assert.Equal(t, models.DayBooked, view.Days[14].Status)
	assert.Equal(t, models.DayFree, view.Days[15].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAggregateStatus(t *testing.T) {
	svc, mock := newMockedAvailability(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM stadiums")).
		WithArgs(testStadiumID).
		WillReturnRows(stadiumRows(models.StadiumIsBooking))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings")).
		WithArgs(testStadiumID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	status, err := svc.AggregateStatus(context.Background(), testStadiumID)
	require.NoError(t, err)
	assert.Equal(t, models.StadiumIsBooking, status)

	mock.ExpectQuery(regexp.QuoteMeta("FROM stadiums")).
		WithArgs(testStadiumID).
		WillReturnRows(stadiumRows(models.StadiumIsBooking))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bookings")).
		WithArgs(testStadiumID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	status, err = svc.AggregateStatus(context.Background(), testStadiumID)
	require.NoError(t, err)
	assert.Equal(t, models.StadiumAvailable, status)

	assert.NoError(t, mock.ExpectationsWereMet())
}
