package models

import (
	"time"
)

// Booking statuses. A booking is "active" while pending or confirmed:
// it counts toward conflicts, inventory holds and the stadium status.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCanceled  = "canceled"
	BookingReturned  = "Return Success"
)

// Stadium statuses. Available/IsBooking are written by the availability
// projector; inactive and active are administrative overrides ("active"
// is the legacy fully-open label kept for calendar compatibility).
const (
	StadiumAvailable    = "Available"
	StadiumIsBooking    = "IsBooking"
	StadiumInactive     = "inactive"
	StadiumOpenOverride = "active"
)

// Equipment statuses.
const (
	EquipmentAvailable   = "available"
	EquipmentUnavailable = "unavailable"
)

// Calendar day statuses for the month availability view.
const (
	DayPast   = "ไม่ได้"
	DayBooked = "ไม่ว่าง"
	DayFree   = "ว่าง"
)

// Stadium represents a bookable venue
type Stadium struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Contact     *string   `json:"contact" db:"contact"`
	Status      string    `json:"status" db:"status"`
	ImageURL    *string   `json:"image_url" db:"image_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Building represents a named sub-area of a stadium
type Building struct {
	ID        string `json:"id" db:"id"`
	StadiumID string `json:"stadium_id" db:"stadium_id"`
	Name      string `json:"name" db:"name"`
}

// Equipment represents a shared countable resource pool
type Equipment struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Status    string    `json:"status" db:"status"`
	ImageURL  *string   `json:"image_url" db:"image_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EquipmentLine is one reserved equipment position of a booking. The
// equipment reference is weak: the referenced row may no longer exist.
type EquipmentLine struct {
	EquipmentID string `json:"equipment_id" db:"equipment_id"`
	Quantity    int    `json:"quantity" db:"quantity"`
}

// Booking represents a reservation of one stadium over one time span
type Booking struct {
	ID           string          `json:"id" db:"id"`
	UserID       string          `json:"user_id" db:"user_id"`
	StadiumID    string          `json:"stadium_id" db:"stadium_id"`
	ActivityName string          `json:"activity_name" db:"activity_name"`
	Status       string          `json:"status" db:"status"`
	CancelReason string          `json:"cancel_reason" db:"cancel_reason"`
	StartsAt     time.Time       `json:"starts_at" db:"starts_at"`
	EndsAt       time.Time       `json:"ends_at" db:"ends_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	BuildingIDs  []string        `json:"building_ids,omitempty"`           // Not from bookings table, filled separately
	Equipment    []EquipmentLine `json:"equipment,omitempty"`              // Not from bookings table, filled separately
}

// IsActive reports whether the booking counts toward conflict detection,
// inventory holds and the stadium aggregate status.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// IsTerminal reports whether the booking can never transition again.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCanceled || b.Status == BookingReturned
}

// Overlaps reports whether the booking's half-open interval [StartsAt, EndsAt)
// intersects [start, end). Touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && b.EndsAt.After(start)
}

// CoversDay reports whether day falls within the booking's calendar-day
// span [StartsAt, EndsAt], inclusive on both ends and ignoring time of day.
func (b *Booking) CoversDay(day time.Time) bool {
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())

	sy, sm, sd := b.StartsAt.In(day.Location()).Date()
	first := time.Date(sy, sm, sd, 0, 0, 0, 0, day.Location())

	ey, em, ed := b.EndsAt.In(day.Location()).Date()
	last := time.Date(ey, em, ed, 0, 0, 0, 0, day.Location())

	return !dayStart.Before(first) && !dayStart.After(last)
}

// ProjectStadiumStatus derives the stadium aggregate status from the
// number of active bookings referencing it.
func ProjectStadiumStatus(activeCount int) string {
	if activeCount > 0 {
		return StadiumIsBooking
	}
	return StadiumAvailable
}
