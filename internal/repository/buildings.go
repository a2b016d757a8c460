package repository

import (
	"context"

	"github.com/lib/pq"

	"sanam/internal/database"
	"sanam/internal/models"
)

type BuildingRepository struct {
	db *database.DB
}

func NewBuildingRepository(db *database.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

func (r *BuildingRepository) Create(ctx context.Context, building *models.Building) error {
	query := `
		INSERT INTO buildings (stadium_id, name)
		VALUES ($1, $2)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		building.StadiumID,
		building.Name,
	).Scan(&building.ID)
}

func (r *BuildingRepository) ListByStadium(ctx context.Context, stadiumID string) ([]models.Building, error) {
	var buildings []models.Building
	query := `
		SELECT id, stadium_id, name
		FROM buildings
		WHERE stadium_id = $1
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, stadiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var building models.Building
		if err := rows.Scan(&building.ID, &building.StadiumID, &building.Name); err != nil {
			return nil, err
		}
		buildings = append(buildings, building)
	}

	return buildings, rows.Err()
}

// ExistingIDs filters ids down to the ones present in the buildings table.
func (r *BuildingRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	query := `SELECT id FROM buildings WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}

	return existing, rows.Err()
}
