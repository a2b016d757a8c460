package repository

import (
	"context"
	"database/sql"

	"sanam/internal/database"
	"sanam/internal/models"
)

type StadiumRepository struct {
	db *database.DB
}

func NewStadiumRepository(db *database.DB) *StadiumRepository {
	return &StadiumRepository{db: db}
}

func (r *StadiumRepository) Create(ctx context.Context, stadium *models.Stadium) error {
	query := `
		INSERT INTO stadiums (name, description, contact, status, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		stadium.Name,
		stadium.Description,
		stadium.Contact,
		stadium.Status,
		stadium.ImageURL,
	).Scan(&stadium.ID, &stadium.CreatedAt, &stadium.UpdatedAt)
}

func (r *StadiumRepository) GetByID(ctx context.Context, id string) (*models.Stadium, error) {
	stadium := &models.Stadium{}
	query := `
		SELECT id, name, description, contact, status, image_url, created_at, updated_at
		FROM stadiums
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&stadium.ID,
		&stadium.Name,
		&stadium.Description,
		&stadium.Contact,
		&stadium.Status,
		&stadium.ImageURL,
		&stadium.CreatedAt,
		&stadium.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return stadium, err
}

func (r *StadiumRepository) List(ctx context.Context) ([]models.Stadium, error) {
	var stadiums []models.Stadium
	query := `
		SELECT id, name, description, contact, status, image_url, created_at, updated_at
		FROM stadiums
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var stadium models.Stadium
		err := rows.Scan(
			&stadium.ID,
			&stadium.Name,
			&stadium.Description,
			&stadium.Contact,
			&stadium.Status,
			&stadium.ImageURL,
			&stadium.CreatedAt,
			&stadium.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		stadiums = append(stadiums, stadium)
	}

	return stadiums, rows.Err()
}

// CountActiveBookings returns the number of active bookings referencing
// the stadium.
func (r *StadiumRepository) CountActiveBookings(ctx context.Context, id string) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE stadium_id = $1 AND status IN ('pending', 'confirmed')`

	err := r.db.QueryRowContext(ctx, query, id).Scan(&count)
	return count, err
}

// recomputeStadiumStatusTx rewrites the stadium aggregate status from the
// active booking count, inside the mutating transaction. Administrative
// overrides (inactive, active) are never touched.
const recomputeStadiumStatusQuery = `
	UPDATE stadiums
	SET status = CASE
		WHEN (SELECT COUNT(*) FROM bookings
		      WHERE stadium_id = $1 AND status IN ('pending', 'confirmed')) > 0
		THEN 'IsBooking' ELSE 'Available' END,
	    updated_at = NOW()
	WHERE id = $1 AND status NOT IN ('inactive', 'active')`

func recomputeStadiumStatusTx(ctx context.Context, tx *sql.Tx, stadiumID string) error {
	_, err := tx.ExecContext(ctx, recomputeStadiumStatusQuery, stadiumID)
	return err
}
