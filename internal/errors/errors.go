package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a booking-core failure.
type Kind string

const (
	KindMissingFields        Kind = "MISSING_FIELDS"
	KindNoBuildingSelected   Kind = "NO_BUILDING_SELECTED"
	KindInvalidTimeRange     Kind = "INVALID_TIME_RANGE"
	KindStadiumNotFound      Kind = "STADIUM_NOT_FOUND"
	KindSlotTaken            Kind = "SLOT_TAKEN"
	KindEquipmentUnavailable Kind = "EQUIPMENT_UNAVAILABLE"
	KindBookingNotFound      Kind = "BOOKING_NOT_FOUND"
	KindEquipmentNotFound    Kind = "EQUIPMENT_NOT_FOUND"
	KindInvalidTransition    Kind = "INVALID_TRANSITION"
	KindInvalidID            Kind = "INVALID_ID"
	KindInvalidQuantity      Kind = "INVALID_QUANTITY"
)

// Error is a domain error with a machine-readable kind and optional
// detail ids (e.g. the equipment lines that failed a reservation).
type Error struct {
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Details, ", "))
	}
	return e.Message
}

// E builds a domain error.
func E(kind Kind, message string, details ...string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// KindOf extracts the kind from err, or "" if err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// DetailsOf extracts the detail ids from err, if any.
func DetailsOf(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}

// HTTPStatus maps a domain error to the status code the API surfaces.
// Non-domain errors map to 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindMissingFields, KindNoBuildingSelected, KindInvalidTimeRange,
		KindEquipmentUnavailable, KindInvalidTransition, KindInvalidID,
		KindInvalidQuantity:
		return http.StatusBadRequest
	case KindStadiumNotFound, KindBookingNotFound, KindEquipmentNotFound:
		return http.StatusNotFound
	case KindSlotTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
