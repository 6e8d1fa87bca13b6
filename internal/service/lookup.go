package service

import (
	"context"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"go.uber.org/zap"
)

// LocationRepository is the storage the location service needs
type LocationRepository interface {
	FindAll(ctx context.Context) ([]model.Location, error)
	FindByID(ctx context.Context, id uint) (*model.Location, error)
	Create(ctx context.Context, location *model.Location) error
	Save(ctx context.Context, location *model.Location) error
}

// LocationService manages the location lookup
type LocationService struct {
	repo LocationRepository
}

func NewLocationService(repo LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

func (s *LocationService) List(ctx context.Context) ([]model.Location, error) {
	return s.repo.FindAll(ctx)
}

func (s *LocationService) Get(ctx context.Context, id uint) (*model.Location, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LocationService) Create(ctx context.Context, location *model.Location) (*model.Location, error) {
	location.ID = 0
	if err := s.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("location", "create")
	logger.FromContext(ctx).Info("Location created", zap.Uint("location_id", location.ID))
	return location, nil
}

func (s *LocationService) Update(ctx context.Context, id uint, changes *model.Location) (*model.Location, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	location.Department = changes.Department
	location.Province = changes.Province
	location.District = changes.District
	location.Address = changes.Address
	if err := s.repo.Save(ctx, location); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("location", "update")
	logger.FromContext(ctx).Info("Location updated", zap.Uint("location_id", id))
	return location, nil
}

// PositionRepository is the storage the position service needs
type PositionRepository interface {
	FindAll(ctx context.Context) ([]model.Position, error)
	FindByID(ctx context.Context, id uint) (*model.Position, error)
	FindByStatus(ctx context.Context, status string) ([]model.Position, error)
	Create(ctx context.Context, position *model.Position) error
	Save(ctx context.Context, position *model.Position) error
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// PositionService manages job positions
type PositionService struct {
	repo PositionRepository
}

func NewPositionService(repo PositionRepository) *PositionService {
	return &PositionService{repo: repo}
}

func (s *PositionService) List(ctx context.Context) ([]model.Position, error) {
	return s.repo.FindAll(ctx)
}

func (s *PositionService) Get(ctx context.Context, id uint) (*model.Position, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PositionService) ListByStatus(ctx context.Context, status string) ([]model.Position, error) {
	return s.repo.FindByStatus(ctx, status)
}

func (s *PositionService) Create(ctx context.Context, position *model.Position) (*model.Position, error) {
	if position.Name == "" {
		return nil, apperror.Validation("invalid position", map[string]string{"name": "is required"})
	}
	position.ID = 0
	position.Status = defaultString(position.Status, model.StatusActive)
	if err := s.repo.Create(ctx, position); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("position", "create")
	logger.FromContext(ctx).Info("Position created", zap.Uint("position_id", position.ID), zap.String("name", position.Name))
	return position, nil
}

func (s *PositionService) Update(ctx context.Context, id uint, changes *model.Position) (*model.Position, error) {
	position, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	position.Name = changes.Name
	position.Description = changes.Description
	position.Status = defaultString(changes.Status, position.Status)
	if err := s.repo.Save(ctx, position); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("position", "update")
	return position, nil
}

func (s *PositionService) Delete(ctx context.Context, id uint) (*model.Position, error) {
	if err := s.repo.UpdateStatus(ctx, id, model.StatusInactive); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("position", "delete")
	return s.repo.FindByID(ctx, id)
}

func (s *PositionService) Restore(ctx context.Context, id uint) (*model.Position, error) {
	if err := s.repo.UpdateStatus(ctx, id, model.StatusActive); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("position", "restore")
	return s.repo.FindByID(ctx, id)
}
