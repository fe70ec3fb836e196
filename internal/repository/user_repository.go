package repository

import (
	"time"

	"mathwave_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) Save(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByEmailAndRole(email string, role model.UserRole) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ? AND role = ?", email, role).First(&user).Error
	return &user, err
}

func (r *UserRepository) UpdatePassword(userID uint, passwordHash string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}

func (r *UserRepository) SetEmailCode(email, code string, expiresAt time.Time) error {
	return r.DB.Model(&model.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"email_code":            code,
		"email_code_expires_at": expiresAt,
	}).Error
}

func (r *UserRepository) MarkEmailVerified(email string) error {
	return r.DB.Model(&model.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"is_verified":           true,
		"email_code":            "",
		"email_code_expires_at": nil,
	}).Error
}

func (r *UserRepository) FindStudentProfile(userID uint) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

func (r *UserRepository) SaveStudentProfile(profile *model.StudentProfile) error {
	return r.DB.Save(profile).Error
}

func (r *UserRepository) FindTeacherProfile(userID uint) (*model.TeacherProfile, error) {
	var profile model.TeacherProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

func (r *UserRepository) FindParentProfile(userID uint) (*model.ParentProfile, error) {
	var profile model.ParentProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

// StudentRow 管理端学生列表行，带档案字段
type StudentRow struct {
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	FullName   string    `json:"full_name"`
	GradeLevel *int      `json:"grade_level"`
	PhoneNo    string    `json:"phone_no"`
	IsVerified bool      `json:"is_verified"`
}

func (r *UserRepository) ListStudents() ([]StudentRow, error) {
	var rows []StudentRow
	err := r.DB.Table("users u").
		Select("u.id as user_id, u.email, u.created_at, sp.full_name, sp.grade_level, sp.phone_no, sp.is_verified").
		Joins("LEFT JOIN student_profiles sp ON u.id = sp.user_id").
		Where("u.role = ? AND u.deleted_at IS NULL", model.Student).
		Order("sp.full_name").
		Scan(&rows).Error
	return rows, err
}

type TeacherRow struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio"`
}

func (r *UserRepository) ListTeachers() ([]TeacherRow, error) {
	var rows []TeacherRow
	err := r.DB.Table("users u").
		Select("u.id as user_id, u.email, u.created_at, tp.full_name, tp.bio").
		Joins("LEFT JOIN teacher_profiles tp ON u.id = tp.user_id").
		Where("u.role = ? AND u.deleted_at IS NULL", model.Teacher).
		Order("tp.full_name").
		Scan(&rows).Error
	return rows, err
}

func (r *UserRepository) SetStudentVerified(userID uint, verified bool) error {
	return r.DB.Model(&model.StudentProfile{}).
		Where("user_id = ?", userID).
		Update("is_verified", verified).Error
}
