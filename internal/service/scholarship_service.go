package service

import (
	"time"

	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
)

type ScholarshipService struct {
	Repo *repository.ScholarshipRepository
}

func NewScholarshipService(repo *repository.ScholarshipRepository) *ScholarshipService {
	return &ScholarshipService{Repo: repo}
}

type CreateScholarshipReq struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Eligibility string     `json:"eligibility"`
	Amount      float64    `json:"amount"`
	Deadline    *time.Time `json:"deadline"`
	DocumentURL string     `json:"document_url"`
}

func (s *ScholarshipService) Create(createdBy uint, req CreateScholarshipReq) (*model.Scholarship, error) {
	sch := &model.Scholarship{
		Title:       req.Title,
		Description: req.Description,
		Eligibility: req.Eligibility,
		Amount:      req.Amount,
		Deadline:    req.Deadline,
		DocumentURL: req.DocumentURL,
		CreatedBy:   createdBy,
	}
	if err := s.Repo.Create(sch); err != nil {
		return nil, err
	}
	return sch, nil
}

func (s *ScholarshipService) List() ([]model.Scholarship, error) {
	return s.Repo.List()
}
