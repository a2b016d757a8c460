package service

import (
	"sanam/internal/cache"
	"sanam/internal/messaging"
	"sanam/internal/repository"
)

type Services struct {
	Bookings     *BookingService
	Availability *AvailabilityService
	Stadiums     *StadiumService
	Equipment    *EquipmentService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, cacheClient *cache.Client) *Services {
	return &Services{
		Bookings:     NewBookingService(repos.Bookings, repos.Stadiums, repos.Buildings, natsClient, cacheClient),
		Availability: NewAvailabilityService(repos.Bookings, repos.Stadiums),
		Stadiums:     NewStadiumService(repos.Stadiums, repos.Buildings),
		Equipment:    NewEquipmentService(repos.Equipment),
	}
}
