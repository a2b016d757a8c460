package service

import (
	"context"
	"fmt"

	apperr "sanam/internal/errors"
	"sanam/internal/models"
	"sanam/internal/repository"
)

type StadiumService struct {
	stadiumRepo  *repository.StadiumRepository
	buildingRepo *repository.BuildingRepository
}

func NewStadiumService(stadiumRepo *repository.StadiumRepository, buildingRepo *repository.BuildingRepository) *StadiumService {
	return &StadiumService{
		stadiumRepo:  stadiumRepo,
		buildingRepo: buildingRepo,
	}
}

func (s *StadiumService) Create(ctx context.Context, req *models.CreateStadiumRequest) (*models.Stadium, error) {
	stadium := &models.Stadium{
		Name:        req.Name,
		Description: req.Description,
		Contact:     req.Contact,
		Status:      models.StadiumAvailable,
		ImageURL:    req.ImageURL,
	}

	if err := s.stadiumRepo.Create(ctx, stadium); err != nil {
		return nil, fmt.Errorf("failed to create stadium: %w", err)
	}

	return stadium, nil
}

func (s *StadiumService) Get(ctx context.Context, id string) (*models.Stadium, error) {
	if !isIDShaped(id) {
		return nil, apperr.E(apperr.KindInvalidID, "stadium id is malformed")
	}

	stadium, err := s.stadiumRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get stadium: %w", err)
	}
	if stadium == nil {
		return nil, apperr.E(apperr.KindStadiumNotFound, "stadium not found")
	}

	return stadium, nil
}

func (s *StadiumService) List(ctx context.Context) ([]models.Stadium, error) {
	stadiums, err := s.stadiumRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stadiums: %w", err)
	}
	return stadiums, nil
}

func (s *StadiumService) ListBuildings(ctx context.Context, stadiumID string) ([]models.Building, error) {
	if _, err := s.Get(ctx, stadiumID); err != nil {
		return nil, err
	}

	buildings, err := s.buildingRepo.ListByStadium(ctx, stadiumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return buildings, nil
}

func (s *StadiumService) CreateBuilding(ctx context.Context, stadiumID string, req *models.CreateBuildingRequest) (*models.Building, error) {
	if _, err := s.Get(ctx, stadiumID); err != nil {
		return nil, err
	}

	building := &models.Building{
		StadiumID: stadiumID,
		Name:      req.Name,
	}
	if err := s.buildingRepo.Create(ctx, building); err != nil {
		return nil, fmt.Errorf("failed to create building: %w", err)
	}

	return building, nil
}
