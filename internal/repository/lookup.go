package repository

import (
	"backoffice-service/internal/model"

	"gorm.io/gorm"
)

// LocationRepository reads locations
type LocationRepository struct {
	store[model.Location]
}

// NewLocationRepository creates the location repository
func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{store[model.Location]{db: db, entity: "location"}}
}

// PositionRepository reads positions
type PositionRepository struct {
	store[model.Position]
}

// NewPositionRepository creates the position repository
func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{store[model.Position]{db: db, entity: "position"}}
}
