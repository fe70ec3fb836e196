package repository

import (
	"mathwave_backend/internal/model"

	"gorm.io/gorm"
)

type ScholarshipRepository struct {
	DB *gorm.DB
}

func NewScholarshipRepository(db *gorm.DB) *ScholarshipRepository {
	return &ScholarshipRepository{DB: db}
}

func (r *ScholarshipRepository) Create(s *model.Scholarship) error {
	return r.DB.Create(s).Error
}

func (r *ScholarshipRepository) List() ([]model.Scholarship, error) {
	var list []model.Scholarship
	err := r.DB.Order("deadline asc").Find(&list).Error
	return list, err
}
