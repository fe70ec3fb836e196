package service

import (
	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"

	"gorm.io/gorm"
)

// AdminService 管理端：地区维护、学生/教师名册与身份审核
type AdminService struct {
	UserRepo   *repository.UserRepository
	RegionRepo *repository.RegionRepository
}

func NewAdminService(userRepo *repository.UserRepository, regionRepo *repository.RegionRepository) *AdminService {
	return &AdminService{UserRepo: userRepo, RegionRepo: regionRepo}
}

type CreateRegionReq struct {
	Name        string `json:"name" binding:"required"`
	Currency    string `json:"currency" binding:"required"`
	CountryCode string `json:"country_code" binding:"required"`
}

func (s *AdminService) CreateRegion(req CreateRegionReq) (*model.Region, error) {
	region := &model.Region{
		Name:        req.Name,
		Currency:    req.Currency,
		CountryCode: req.CountryCode,
	}
	if err := s.RegionRepo.Create(region); err != nil {
		return nil, err
	}
	return region, nil
}

func (s *AdminService) ListRegions() ([]model.Region, error) {
	return s.RegionRepo.List()
}

func (s *AdminService) ListStudents() ([]repository.StudentRow, error) {
	return s.UserRepo.ListStudents()
}

func (s *AdminService) ListTeachers() ([]repository.TeacherRow, error) {
	return s.UserRepo.ListTeachers()
}

// VerifyStudent 审核学生上传的身份证明。未上传过证明的学生不能直接通过。
func (s *AdminService) VerifyStudent(studentID uint, verified bool) error {
	profile, err := s.UserRepo.FindStudentProfile(studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}

	if verified && profile.IDProofURL == "" {
		return util.ErrIDProofRequired
	}

	return s.UserRepo.SetStudentVerified(studentID, verified)
}
