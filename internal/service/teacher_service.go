package service

import (
	"time"

	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"
)

// TeacherService 教师端：所授课程、课程测试发布与家长名册
type TeacherService struct {
	CourseRepo *repository.CourseRepository
	TestRepo   *repository.TestRepository
}

func NewTeacherService(courseRepo *repository.CourseRepository, testRepo *repository.TestRepository) *TeacherService {
	return &TeacherService{CourseRepo: courseRepo, TestRepo: testRepo}
}

func (s *TeacherService) ListMyCourses(teacherID uint) ([]model.Course, error) {
	return s.CourseRepo.ListTeacherCourses(teacherID)
}

type CreateTestReq struct {
	CourseID    uint      `json:"course_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	TestDate    time.Time `json:"test_date" binding:"required"`
	TestLink    string    `json:"test_link" binding:"required,url"`
}

// CreateTest 发布课程测试，仅限被指派到该课程的教师
func (s *TeacherService) CreateTest(teacherID uint, req CreateTestReq) (*model.CourseTest, error) {
	assigned, err := s.CourseRepo.IsTeacherAssigned(teacherID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, util.ErrNotCourseTeacher
	}

	test := &model.CourseTest{
		CourseID:    req.CourseID,
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		TestDate:    req.TestDate,
		TestLink:    req.TestLink,
	}
	if err := s.TestRepo.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

// ListParents 教师所授课程学生的家长名册，分页返回
func (s *TeacherService) ListParents(teacherID uint, page, limit int) ([]repository.ParentRow, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.ListParentsOfTaughtStudents(teacherID, page, limit)
}
