package repository

import (
	"sanam/internal/database"
)

type Repositories struct {
	Stadiums  *StadiumRepository
	Buildings *BuildingRepository
	Equipment *EquipmentRepository
	Bookings  *BookingRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Stadiums:  NewStadiumRepository(db),
		Buildings: NewBuildingRepository(db),
		Equipment: NewEquipmentRepository(db),
		Bookings:  NewBookingRepository(db),
	}
}
