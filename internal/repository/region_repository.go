package repository

import (
	"mathwave_backend/internal/model"

	"gorm.io/gorm"
)

type RegionRepository struct {
	DB *gorm.DB
}

func NewRegionRepository(db *gorm.DB) *RegionRepository {
	return &RegionRepository{DB: db}
}

func (r *RegionRepository) Create(region *model.Region) error {
	return r.DB.Create(region).Error
}

func (r *RegionRepository) List() ([]model.Region, error) {
	var regions []model.Region
	err := r.DB.Order("name").Find(&regions).Error
	return regions, err
}
