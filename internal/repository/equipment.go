package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"sanam/internal/database"
	"sanam/internal/models"
)

type EquipmentRepository struct {
	db *database.DB
}

func NewEquipmentRepository(db *database.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, equipment *models.Equipment) error {
	query := `
		INSERT INTO equipment (name, quantity, status, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		equipment.Name,
		equipment.Quantity,
		equipment.Status,
		equipment.ImageURL,
	).Scan(&equipment.ID, &equipment.CreatedAt, &equipment.UpdatedAt)
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	equipment := &models.Equipment{}
	query := `
		SELECT id, name, quantity, status, image_url, created_at, updated_at
		FROM equipment
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&equipment.ID,
		&equipment.Name,
		&equipment.Quantity,
		&equipment.Status,
		&equipment.ImageURL,
		&equipment.CreatedAt,
		&equipment.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return equipment, err
}

func (r *EquipmentRepository) List(ctx context.Context) ([]models.Equipment, error) {
	var items []models.Equipment
	query := `
		SELECT id, name, quantity, status, image_url, created_at, updated_at
		FROM equipment
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var equipment models.Equipment
		err := rows.Scan(
			&equipment.ID,
			&equipment.Name,
			&equipment.Quantity,
			&equipment.Status,
			&equipment.ImageURL,
			&equipment.CreatedAt,
			&equipment.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, equipment)
	}

	return items, rows.Err()
}

// reserveEquipmentTx decrements stock for every line as a single
// conditional UPDATE per line. A line fails when the equipment row is
// missing, unavailable or short on stock; all failing ids are collected
// so the caller can report the full list and roll back.
func reserveEquipmentTx(ctx context.Context, tx *sql.Tx, lines []models.EquipmentLine) ([]string, error) {
	query := `
		UPDATE equipment
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND status = 'available' AND quantity >= $2`

	var failed []string
	for _, line := range lines {
		res, err := tx.ExecContext(ctx, query, line.EquipmentID, line.Quantity)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			failed = append(failed, line.EquipmentID)
		}
	}

	return failed, nil
}

// releaseEquipmentTx returns previously reserved stock. Lines whose
// equipment reference is malformed or no longer resolves are skipped:
// failing a cancellation over a stale reference would strand the booking.
func releaseEquipmentTx(ctx context.Context, tx *sql.Tx, bookingID string, lines []models.EquipmentLine) error {
	query := `
		UPDATE equipment
		SET quantity = quantity + $2, status = 'available', updated_at = NOW()
		WHERE id = $1`

	for _, line := range lines {
		if _, err := uuid.Parse(line.EquipmentID); err != nil {
			slog.Warn("Skipping release of malformed equipment reference",
				"booking_id", bookingID, "equipment_id", line.EquipmentID)
			continue
		}

		res, err := tx.ExecContext(ctx, query, line.EquipmentID, line.Quantity)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			slog.Warn("Skipping release of missing equipment",
				"booking_id", bookingID, "equipment_id", line.EquipmentID)
		}
	}

	return nil
}
