package service

import (
	"context"
	"fmt"
	"time"

	"sanam/internal/cache"
	apperr "sanam/internal/errors"
	"sanam/internal/logger"
	"sanam/internal/messaging"
	"sanam/internal/models"
	"sanam/internal/repository"
)

type BookingService struct {
	bookingRepo  *repository.BookingRepository
	stadiumRepo  *repository.StadiumRepository
	buildingRepo *repository.BuildingRepository
	natsClient   *messaging.NATSClient
	cacheClient  *cache.Client
}

func NewBookingService(bookingRepo *repository.BookingRepository, stadiumRepo *repository.StadiumRepository, buildingRepo *repository.BuildingRepository, natsClient *messaging.NATSClient, cacheClient *cache.Client) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		stadiumRepo:  stadiumRepo,
		buildingRepo: buildingRepo,
		natsClient:   natsClient,
		cacheClient:  cacheClient,
	}
}

// Create runs the full reservation flow: normalize, resolve the stadium
// and buildings, then reserve slot and equipment in one unit of work.
func (s *BookingService) Create(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	norm, err := NormalizeBookingRequest(req)
	if err != nil {
		return nil, err
	}

	for _, dropped := range norm.Dropped {
		logger.WithContext(ctx).Warn("Dropped malformed equipment line",
			"equipment_id", dropped.EquipmentID,
			"quantity", dropped.Quantity,
			"reason", dropped.Reason)
	}

	stadium, err := s.stadiumRepo.GetByID(ctx, norm.StadiumID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stadium: %w", err)
	}
	if stadium == nil {
		return nil, apperr.E(apperr.KindStadiumNotFound, "stadium not found")
	}

	existing, err := s.buildingRepo.ExistingIDs(ctx, norm.BuildingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve buildings: %w", err)
	}
	var buildingIDs []string
	for _, id := range norm.BuildingIDs {
		if existing[id] {
			buildingIDs = append(buildingIDs, id)
		}
	}
	if len(buildingIDs) == 0 {
		return nil, apperr.E(apperr.KindNoBuildingSelected, "no building selected")
	}

	booking := &models.Booking{
		UserID:       norm.UserID,
		StadiumID:    norm.StadiumID,
		ActivityName: norm.ActivityName,
		Status:       models.BookingPending,
		StartsAt:     norm.StartsAt,
		EndsAt:       norm.EndsAt,
	}

	if err := s.bookingRepo.Create(ctx, booking, buildingIDs, norm.Lines); err != nil {
		if apperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(ctx, models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID: booking.ID,
		StadiumID: booking.StadiumID,
		UserID:    booking.UserID,
		StartsAt:  booking.StartsAt,
		EndsAt:    booking.EndsAt,
		Timestamp: time.Now(),
	})
	s.invalidateAvailability(ctx, booking)

	return booking, nil
}

// Confirm transitions a pending booking to confirmed (staff approval).
func (s *BookingService) Confirm(ctx context.Context, id string) (*models.Booking, error) {
	if !isIDShaped(id) {
		return nil, apperr.E(apperr.KindInvalidID, "booking id is malformed")
	}

	booking, err := s.bookingRepo.Confirm(ctx, id)
	if err != nil {
		if apperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.E(apperr.KindBookingNotFound, "booking not found")
	}

	s.publish(ctx, models.EventBookingConfirmed, models.BookingConfirmedEvent{
		BookingID: booking.ID,
		StadiumID: booking.StadiumID,
		Timestamp: time.Now(),
	})

	return booking, nil
}

// Cancel releases the booking's equipment and marks it canceled. The
// operation is idempotent: canceling a canceled booking succeeds without
// touching inventory again.
func (s *BookingService) Cancel(ctx context.Context, id, reason string) (*models.Booking, error) {
	if !isIDShaped(id) {
		return nil, apperr.E(apperr.KindInvalidID, "booking id is malformed")
	}

	booking, err := s.bookingRepo.Cancel(ctx, id, reason)
	if err != nil {
		if apperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.E(apperr.KindBookingNotFound, "booking not found")
	}

	s.publish(ctx, models.EventBookingCanceled, models.BookingCanceledEvent{
		BookingID: booking.ID,
		StadiumID: booking.StadiumID,
		Reason:    reason,
		Timestamp: time.Now(),
	})
	s.invalidateAvailability(ctx, booking)

	return booking, nil
}

// Reset is the staff return action on a confirmed booking.
func (s *BookingService) Reset(ctx context.Context, id string) (*models.Booking, error) {
	if !isIDShaped(id) {
		return nil, apperr.E(apperr.KindInvalidID, "booking id is malformed")
	}

	booking, err := s.bookingRepo.Reset(ctx, id)
	if err != nil {
		if apperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("failed to reset booking: %w", err)
	}
	if booking == nil {
		return nil, apperr.E(apperr.KindBookingNotFound, "booking not found")
	}

	s.publish(ctx, models.EventBookingReturned, models.BookingReturnedEvent{
		BookingID: booking.ID,
		StadiumID: booking.StadiumID,
		Timestamp: time.Now(),
	})
	s.invalidateAvailability(ctx, booking)

	return booking, nil
}

// GetByUser is the canonical user-bookings read; includeRelated controls
// whether equipment lines and building ids are populated.
func (s *BookingService) GetByUser(ctx context.Context, userID string, includeRelated bool) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	if includeRelated {
		for i := range bookings {
			lines, err := s.bookingRepo.GetEquipmentLines(ctx, bookings[i].ID)
			if err != nil {
				return nil, fmt.Errorf("failed to get equipment lines: %w", err)
			}
			bookings[i].Equipment = lines

			buildingIDs, err := s.bookingRepo.GetBuildingIDs(ctx, bookings[i].ID)
			if err != nil {
				return nil, fmt.Errorf("failed to get booking buildings: %w", err)
			}
			bookings[i].BuildingIDs = buildingIDs
		}
	}

	return bookings, nil
}

// publish sends a lifecycle event best-effort; a broker failure never
// fails the booking operation.
func (s *BookingService) publish(ctx context.Context, subject string, data interface{}) {
	if err := s.natsClient.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking event",
			"error", err,
			"event_type", subject)
	}
}

func (s *BookingService) invalidateAvailability(ctx context.Context, booking *models.Booking) {
	if s.cacheClient == nil {
		return
	}
	if err := s.cacheClient.InvalidateRange(ctx, booking.StadiumID, booking.StartsAt, booking.EndsAt); err != nil {
		logger.WithContext(ctx).Error("Failed to invalidate availability cache",
			"error", err,
			"stadium_id", booking.StadiumID)
	}
}
