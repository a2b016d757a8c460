package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperr "sanam/internal/errors"
	"sanam/internal/models"
)

// defaultActivityName is used when the requester leaves the free-text
// activity field blank.
const defaultActivityName = "ไม่ระบุกิจกรรม"

const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
	dateTimeLayout = "2006-01-02 15:04"
)

// DroppedLine records an equipment line removed during normalization,
// with the reason, so rejected input never reaches inventory logic
// unnoticed.
type DroppedLine struct {
	EquipmentID string
	Quantity    int
	Reason      string
}

// NormalizedBooking is the validated, canonical form of a create request.
type NormalizedBooking struct {
	UserID       string
	StadiumID    string
	BuildingIDs  []string
	ActivityName string
	StartsAt     time.Time
	EndsAt       time.Time
	Lines        []models.EquipmentLine
	Dropped      []DroppedLine
}

func isIDShaped(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NormalizeBookingRequest validates the raw request and produces its
// canonical form. Pure: no lookups, no side effects.
func NormalizeBookingRequest(req *models.CreateBookingRequest) (*NormalizedBooking, error) {
	if req.UserID == "" || req.StadiumID == "" ||
		req.StartDate == "" || req.EndDate == "" ||
		req.StartTime == "" || req.EndTime == "" {
		return nil, apperr.E(apperr.KindMissingFields, "required booking fields are missing")
	}

	if !isIDShaped(req.StadiumID) {
		return nil, apperr.E(apperr.KindInvalidID, "stadium id is malformed")
	}

	buildingIDs := normalizeBuildingIDs(req)
	if len(buildingIDs) == 0 {
		return nil, apperr.E(apperr.KindNoBuildingSelected, "no building selected")
	}

	// Same-day clock ordering; "HH:MM" compares lexicographically.
	if req.StartTime >= req.EndTime {
		return nil, apperr.E(apperr.KindInvalidTimeRange, "start time must be before end time")
	}

	startsAt, err := time.ParseInLocation(dateTimeLayout, req.StartDate+" "+req.StartTime, time.Local)
	if err != nil {
		return nil, apperr.E(apperr.KindInvalidTimeRange, "start date or time is malformed")
	}
	endsAt, err := time.ParseInLocation(dateTimeLayout, req.EndDate+" "+req.EndTime, time.Local)
	if err != nil {
		return nil, apperr.E(apperr.KindInvalidTimeRange, "end date or time is malformed")
	}

	// Catches spans the clock comparison cannot, e.g. end date before
	// start date.
	if !startsAt.Before(endsAt) {
		return nil, apperr.E(apperr.KindInvalidTimeRange, "booking must start before it ends")
	}

	activity := strings.TrimSpace(req.ActivityName)
	if activity == "" {
		activity = defaultActivityName
	}

	lines, dropped := normalizeEquipmentLines(req.Equipment)

	return &NormalizedBooking{
		UserID:       req.UserID,
		StadiumID:    req.StadiumID,
		BuildingIDs:  buildingIDs,
		ActivityName: activity,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		Lines:        lines,
		Dropped:      dropped,
	}, nil
}

// normalizeBuildingIDs merges the historical building field spellings into
// one deduplicated list of id-shaped values, preserving request order.
func normalizeBuildingIDs(req *models.CreateBookingRequest) []string {
	var merged []string
	merged = append(merged, req.BuildingIDs...)
	merged = append(merged, req.BuildingID...)
	merged = append(merged, req.Buildings...)

	seen := make(map[string]bool, len(merged))
	var result []string
	for _, id := range merged {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] || !isIDShaped(id) {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

// normalizeEquipmentLines keeps well-formed lines and tags the rest with a
// drop reason. A request with only bad lines still proceeds without
// equipment, matching the historical behavior.
func normalizeEquipmentLines(reqLines []models.EquipmentLineRequest) ([]models.EquipmentLine, []DroppedLine) {
	var lines []models.EquipmentLine
	var dropped []DroppedLine

	for _, line := range reqLines {
		qty := line.Quantity.Int()
		switch {
		case !isIDShaped(line.EquipmentID):
			dropped = append(dropped, DroppedLine{
				EquipmentID: line.EquipmentID,
				Quantity:    qty,
				Reason:      "equipment id is not id-shaped",
			})
		case qty <= 0:
			dropped = append(dropped, DroppedLine{
				EquipmentID: line.EquipmentID,
				Quantity:    qty,
				Reason:      "quantity is not a positive integer",
			})
		default:
			lines = append(lines, models.EquipmentLine{
				EquipmentID: line.EquipmentID,
				Quantity:    qty,
			})
		}
	}

	return lines, dropped
}
