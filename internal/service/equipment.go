package service

import (
	"context"
	"fmt"

	apperr "sanam/internal/errors"
	"sanam/internal/models"
	"sanam/internal/repository"
)

type EquipmentService struct {
	equipmentRepo *repository.EquipmentRepository
}

func NewEquipmentService(equipmentRepo *repository.EquipmentRepository) *EquipmentService {
	return &EquipmentService{equipmentRepo: equipmentRepo}
}

func (s *EquipmentService) Create(ctx context.Context, req *models.CreateEquipmentRequest) (*models.Equipment, error) {
	if req.Quantity.Int() < 0 {
		return nil, apperr.E(apperr.KindInvalidQuantity, "quantity must not be negative")
	}

	equipment := &models.Equipment{
		Name:     req.Name,
		Quantity: req.Quantity.Int(),
		Status:   models.EquipmentAvailable,
		ImageURL: req.ImageURL,
	}

	if err := s.equipmentRepo.Create(ctx, equipment); err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}

	return equipment, nil
}

func (s *EquipmentService) Get(ctx context.Context, id string) (*models.Equipment, error) {
	if !isIDShaped(id) {
		return nil, apperr.E(apperr.KindInvalidID, "equipment id is malformed")
	}

	equipment, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	if equipment == nil {
		return nil, apperr.E(apperr.KindEquipmentNotFound, "equipment not found")
	}

	return equipment, nil
}

func (s *EquipmentService) List(ctx context.Context) ([]models.Equipment, error) {
	items, err := s.equipmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return items, nil
}
