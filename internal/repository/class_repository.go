package repository

import (
	"mathwave_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

func (r *ClassRepository) Create(class *model.Class) error {
	return r.DB.Create(class).Error
}

func (r *ClassRepository) FindByID(id uint) (*model.Class, error) {
	var class model.Class
	err := r.DB.First(&class, id).Error
	return &class, err
}

func (r *ClassRepository) ListByCourseIDs(courseIDs []uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.DB.Where("course_id IN ?", courseIDs).
		Order("start_time desc").
		Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) FindCredential(userID uint) (*model.ZoomCredential, error) {
	var cred model.ZoomCredential
	err := r.DB.Where("user_id = ?", userID).First(&cred).Error
	return &cred, err
}

// UpsertCredential OAuth 回调可能重复触发，按 user_id 冲突更新
func (r *ClassRepository) UpsertCredential(cred *model.ZoomCredential) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at"}),
	}).Create(cred).Error
}

func (r *ClassRepository) SaveCredential(cred *model.ZoomCredential) error {
	return r.DB.Save(cred).Error
}
