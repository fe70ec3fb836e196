package repository

import (
	"mathwave_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.CourseTest) error {
	return r.DB.Create(test).Error
}

// TestRow 学生可见的课程测试行，带课程标题。
// Joinable 在服务层按测试日期计算。
type TestRow struct {
	model.CourseTest
	CourseTitle string `json:"courseTitle"`
	Joinable    bool   `json:"joinable" gorm:"-"`
}

func (r *TestRepository) ListForCourses(courseIDs []uint) ([]TestRow, error) {
	var rows []TestRow
	err := r.DB.Table("tests t").
		Select("t.*, c.title as course_title").
		Joins("JOIN courses c ON c.id = t.course_id").
		Where("t.course_id IN ? AND t.deleted_at IS NULL", courseIDs).
		Order("t.test_date asc").
		Scan(&rows).Error
	return rows, err
}
