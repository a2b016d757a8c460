package models

import "time"

// NATS Event Types
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCanceled  = "booking.canceled"
	EventBookingReturned  = "booking.returned"
)

// BookingCreatedEvent represents a booking creation event
type BookingCreatedEvent struct {
	BookingID string    `json:"booking_id"`
	StadiumID string    `json:"stadium_id"`
	UserID    string    `json:"user_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingConfirmedEvent represents a staff approval event
type BookingConfirmedEvent struct {
	BookingID string    `json:"booking_id"`
	StadiumID string    `json:"stadium_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCanceledEvent represents a booking cancellation event
type BookingCanceledEvent struct {
	BookingID string    `json:"booking_id"`
	StadiumID string    `json:"stadium_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingReturnedEvent represents the staff return/reconcile event
type BookingReturnedEvent struct {
	BookingID string    `json:"booking_id"`
	StadiumID string    `json:"stadium_id"`
	Timestamp time.Time `json:"timestamp"`
}
