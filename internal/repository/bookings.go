package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"sanam/internal/database"
	apperr "sanam/internal/errors"
	"sanam/internal/models"
)

// pgExclusionViolation is raised when the bookings_no_overlap constraint
// rejects a concurrent insert the application-level check did not see.
const pgExclusionViolation = "23P01"

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, stadium_id, activity_name, status, cancel_reason,
	       starts_at, ends_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *models.Booking) error {
	return row.Scan(
		&b.ID,
		&b.UserID,
		&b.StadiumID,
		&b.ActivityName,
		&b.Status,
		&b.CancelReason,
		&b.StartsAt,
		&b.EndsAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

// Create performs the whole reservation as one transaction: a per-stadium
// advisory lock serializes the conflict-check-then-insert sequence, the
// overlap check rejects occupied slots, and equipment stock is decremented
// conditionally so quantities can never go negative. Any failure rolls the
// whole reservation back.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking, buildingIDs []string, lines []models.EquipmentLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lockQuery := `SELECT pg_advisory_xact_lock(hashtext($1))`
	if _, err := tx.ExecContext(ctx, lockQuery, booking.StadiumID); err != nil {
		return err
	}

	var conflict bool
	conflictQuery := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE stadium_id = $1
			  AND status IN ('pending', 'confirmed')
			  AND starts_at < $3 AND ends_at > $2
		)`
	if err := tx.QueryRowContext(ctx, conflictQuery, booking.StadiumID, booking.StartsAt, booking.EndsAt).Scan(&conflict); err != nil {
		return err
	}
	if conflict {
		return apperr.E(apperr.KindSlotTaken, "requested time slot is already booked")
	}

	insertQuery := `
		INSERT INTO bookings (user_id, stadium_id, activity_name, status, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, insertQuery,
		booking.UserID,
		booking.StadiumID,
		booking.ActivityName,
		booking.Status,
		booking.StartsAt,
		booking.EndsAt,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return mapBookingInsertError(err)
	}

	buildingQuery := `INSERT INTO booking_buildings (booking_id, building_id) VALUES ($1, $2)`
	for _, buildingID := range buildingIDs {
		if _, err := tx.ExecContext(ctx, buildingQuery, booking.ID, buildingID); err != nil {
			return err
		}
	}

	failed, err := reserveEquipmentTx(ctx, tx, lines)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		return apperr.E(apperr.KindEquipmentUnavailable, "equipment unavailable or insufficient", failed...)
	}

	lineQuery := `INSERT INTO booking_equipment (booking_id, equipment_id, quantity) VALUES ($1, $2, $3)`
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, lineQuery, booking.ID, line.EquipmentID, line.Quantity); err != nil {
			return err
		}
	}

	if err := recomputeStadiumStatusTx(ctx, tx, booking.StadiumID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapBookingInsertError(err)
	}

	booking.BuildingIDs = buildingIDs
	booking.Equipment = lines
	return nil
}

func mapBookingInsertError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgExclusionViolation {
		return apperr.E(apperr.KindSlotTaken, "requested time slot is already booked")
	}
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	err := scanBooking(r.db.QueryRowContext(ctx, query, id), booking)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// GetActiveInRange returns active bookings of a stadium whose span touches
// [from, to], for the calendar projection.
func (r *BookingRepository) GetActiveInRange(ctx context.Context, stadiumID string, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE stadium_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND starts_at <= $3 AND ends_at >= $2
		ORDER BY starts_at`

	rows, err := r.db.QueryContext(ctx, query, stadiumID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) GetEquipmentLines(ctx context.Context, bookingID string) ([]models.EquipmentLine, error) {
	var lines []models.EquipmentLine
	query := `SELECT equipment_id, quantity FROM booking_equipment WHERE booking_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line models.EquipmentLine
		if err := rows.Scan(&line.EquipmentID, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func (r *BookingRepository) GetBuildingIDs(ctx context.Context, bookingID string) ([]string, error) {
	var ids []string
	query := `SELECT building_id FROM booking_buildings WHERE booking_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *BookingRepository) getForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	err := scanBooking(tx.QueryRowContext(ctx, query, id), booking)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

// Confirm transitions a pending booking to confirmed. No inventory or
// stadium-status effect: the stadium has been IsBooking since creation.
func (r *BookingRepository) Confirm(ctx context.Context, id string) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	booking, err := r.getForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}
	if booking.Status != models.BookingPending {
		return nil, apperr.E(apperr.KindInvalidTransition, "only pending bookings can be confirmed")
	}

	updateQuery := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, updateQuery, models.BookingConfirmed, id).Scan(&booking.UpdatedAt); err != nil {
		return nil, err
	}
	booking.Status = models.BookingConfirmed

	return booking, tx.Commit()
}

// Cancel releases reserved equipment, marks the booking canceled with the
// given reason and recomputes the stadium status, all in one transaction.
// Canceling an already-canceled booking is a no-op that still succeeds.
func (r *BookingRepository) Cancel(ctx context.Context, id, reason string) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	booking, err := r.getForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}
	if booking.Status == models.BookingCanceled {
		return booking, tx.Commit()
	}
	// Equipment of a returned booking was already released at reset;
	// canceling it would increment stock a second time.
	if booking.IsTerminal() {
		return nil, apperr.E(apperr.KindInvalidTransition, "booking resources were already returned")
	}

	lines, err := r.getEquipmentLinesTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := releaseEquipmentTx(ctx, tx, id, lines); err != nil {
		return nil, err
	}

	updateQuery := `UPDATE bookings SET status = $1, cancel_reason = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, updateQuery, models.BookingCanceled, reason, id).Scan(&booking.UpdatedAt); err != nil {
		return nil, err
	}
	booking.Status = models.BookingCanceled
	booking.CancelReason = reason

	if err := recomputeStadiumStatusTx(ctx, tx, booking.StadiumID); err != nil {
		return nil, err
	}

	return booking, tx.Commit()
}

// Reset marks a confirmed booking's resources as returned: releases the
// equipment, sets Return Success and recomputes the stadium status.
func (r *BookingRepository) Reset(ctx context.Context, id string) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	booking, err := r.getForUpdateTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, nil
	}
	if booking.Status != models.BookingConfirmed {
		return nil, apperr.E(apperr.KindInvalidTransition, "only confirmed bookings can be reset")
	}

	lines, err := r.getEquipmentLinesTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := releaseEquipmentTx(ctx, tx, id, lines); err != nil {
		return nil, err
	}

	updateQuery := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	if err := tx.QueryRowContext(ctx, updateQuery, models.BookingReturned, id).Scan(&booking.UpdatedAt); err != nil {
		return nil, err
	}
	booking.Status = models.BookingReturned

	if err := recomputeStadiumStatusTx(ctx, tx, booking.StadiumID); err != nil {
		return nil, err
	}

	return booking, tx.Commit()
}

func (r *BookingRepository) getEquipmentLinesTx(ctx context.Context, tx *sql.Tx, bookingID string) ([]models.EquipmentLine, error) {
	var lines []models.EquipmentLine
	query := `SELECT equipment_id, quantity FROM booking_equipment WHERE booking_id = $1 ORDER BY id`

	rows, err := tx.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line models.EquipmentLine
		if err := rows.Scan(&line.EquipmentID, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
