package service

import (
	"context"
	"fmt"
	"time"

	apperr "sanam/internal/errors"
	"sanam/internal/models"
	"sanam/internal/repository"
)

// AvailabilityService projects booking state into read views: the month
// calendar and the stadium aggregate status. It never mutates anything.
type AvailabilityService struct {
	bookingRepo *repository.BookingRepository
	stadiumRepo *repository.StadiumRepository

	// now is swappable for tests
	now func() time.Time
}

func NewAvailabilityService(bookingRepo *repository.BookingRepository, stadiumRepo *repository.StadiumRepository) *AvailabilityService {
	return &AvailabilityService{
		bookingRepo: bookingRepo,
		stadiumRepo: stadiumRepo,
		now:         time.Now,
	}
}

// MonthView classifies every day of the month for one stadium.
func (s *AvailabilityService) MonthView(ctx context.Context, stadiumID string, year, month int) (*models.AvailableDatesResponse, error) {
	if !isIDShaped(stadiumID) {
		return nil, apperr.E(apperr.KindInvalidID, "stadium id is malformed")
	}
	if month < 1 || month > 12 || year < 1 {
		return nil, apperr.E(apperr.KindInvalidTimeRange, "year or month out of range")
	}

	stadium, err := s.stadiumRepo.GetByID(ctx, stadiumID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stadium: %w", err)
	}
	if stadium == nil {
		return nil, apperr.E(apperr.KindStadiumNotFound, "stadium not found")
	}

	today := s.now()

	var bookings []models.Booking
	// Legacy open-override short-circuit: a stadium administratively
	// marked fully open reports every future day as free, so the
	// booking set is not even consulted.
	if stadium.Status != models.StadiumOpenOverride {
		monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, today.Location())
		monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
		bookings, err = s.bookingRepo.GetActiveInRange(ctx, stadiumID, monthStart, monthEnd)
		if err != nil {
			return nil, fmt.Errorf("failed to get active bookings: %w", err)
		}
	}

	return &models.AvailableDatesResponse{
		StadiumID: stadiumID,
		Year:      year,
		Month:     month,
		Days:      buildDayStatuses(year, time.Month(month), today, bookings),
	}, nil
}

// AggregateStatus reports the projector's view of a stadium status from
// the live active-booking count.
func (s *AvailabilityService) AggregateStatus(ctx context.Context, stadiumID string) (string, error) {
	if !isIDShaped(stadiumID) {
		return "", apperr.E(apperr.KindInvalidID, "stadium id is malformed")
	}

	stadium, err := s.stadiumRepo.GetByID(ctx, stadiumID)
	if err != nil {
		return "", fmt.Errorf("failed to get stadium: %w", err)
	}
	if stadium == nil {
		return "", apperr.E(apperr.KindStadiumNotFound, "stadium not found")
	}

	count, err := s.stadiumRepo.CountActiveBookings(ctx, stadiumID)
	if err != nil {
		return "", fmt.Errorf("failed to count active bookings: %w", err)
	}

	return models.ProjectStadiumStatus(count), nil
}

// buildDayStatuses classifies each day of the month: days before today are
// unavailable, days covered by any active booking (inclusive calendar-day
// containment, time of day ignored) are booked, the rest are free.
func buildDayStatuses(year int, month time.Month, today time.Time, bookings []models.Booking) []models.DayStatus {
	loc := today.Location()
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)

	daysInMonth := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, -1).Day()

	days := make([]models.DayStatus, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, loc)

		status := models.DayFree
		if day.Before(todayStart) {
			status = models.DayPast
		} else {
			for i := range bookings {
				if bookings[i].CoversDay(day) {
					status = models.DayBooked
					break
				}
			}
		}

		days = append(days, models.DayStatus{
			Day:    d,
			Date:   day.Format(dateLayout),
			Status: status,
		})
	}

	return days
}
