package service

import (
	"testing"

	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCourseService(t *testing.T) (*CourseService, *gorm.DB) {
	db := newTestDB(t)
	return NewCourseService(repository.NewCourseRepository(db), repository.NewUserRepository(db)), db
}

func floatPtr(v float64) *float64 { return &v }

func createRegion(t *testing.T, db *gorm.DB, name string) *model.Region {
	t.Helper()
	region := &model.Region{Name: name, Currency: "USD", CountryCode: "US"}
	require.NoError(t, db.Create(region).Error)
	return region
}

func createTeacher(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x", Role: model.Teacher, IsVerified: true}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.TeacherProfile{UserID: user.ID, FullName: "Teacher"}).Error)
	return user.ID
}

func createVerifiedStudent(t *testing.T, db *gorm.DB, email string, regionID *uint) uint {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "x", Role: model.Student, IsVerified: true}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.StudentProfile{
		UserID:     user.ID,
		FullName:   "Student",
		GradeLevel: intPtr(7),
		RegionID:   regionID,
		IDProofURL: "/uploads/id.png",
		IsVerified: true,
	}).Error)
	return user.ID
}

func TestCreateCourseWithRegionalPrices(t *testing.T) {
	s, db := newCourseService(t)
	region := createRegion(t, db, "United States")

	course, err := s.CreateCourse(CreateCourseReq{
		Title:     "Algebra Basics",
		BasePrice: floatPtr(100),
		Prices:    []CoursePriceReq{{RegionID: region.ID, Price: 79.99}},
	})
	require.NoError(t, err)

	var prices []model.CoursePrice
	require.NoError(t, db.Where("course_id = ?", course.ID).Find(&prices).Error)
	require.Len(t, prices, 1)
	assert.Equal(t, 79.99, prices[0].Price)

	views, err := s.ListCourses()
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Len(t, views[0].Prices, 1)
}

func TestPriceForStudentUsesRegionThenBase(t *testing.T) {
	s, db := newCourseService(t)
	region := createRegion(t, db, "India")

	course, err := s.CreateCourse(CreateCourseReq{
		Title:     "Geometry",
		BasePrice: floatPtr(100),
		Prices:    []CoursePriceReq{{RegionID: region.ID, Price: 50}},
	})
	require.NoError(t, err)

	inRegion := createVerifiedStudent(t, db, "in@example.com", &region.ID)
	price, err := s.PriceForStudent(course.ID, inRegion)
	require.NoError(t, err)
	assert.Equal(t, 50.0, price)

	// 未设置地区的学生回退基础价
	noRegion := createVerifiedStudent(t, db, "none@example.com", nil)
	price, err = s.PriceForStudent(course.ID, noRegion)
	require.NoError(t, err)
	assert.Equal(t, 100.0, price)

	_, err = s.PriceForStudent(9999, inRegion)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEnrollRequiresVerifiedIDProof(t *testing.T) {
	s, db := newCourseService(t)

	course, err := s.CreateCourse(CreateCourseReq{Title: "Calculus"})
	require.NoError(t, err)

	// 档案未审核
	user := &model.User{Email: "unverified@example.com", PasswordHash: "x", Role: model.Student}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.StudentProfile{UserID: user.ID, FullName: "U"}).Error)

	err = s.Enroll(course.ID, user.ID)
	assert.ErrorIs(t, err, util.ErrIDProofRequired)

	verified := createVerifiedStudent(t, db, "ok@example.com", nil)
	require.NoError(t, s.Enroll(course.ID, verified))

	// 重复报名幂等
	require.NoError(t, s.Enroll(course.ID, verified))

	var count int64
	require.NoError(t, db.Model(&model.CourseEnrollment{}).
		Where("course_id = ? AND student_id = ?", course.ID, verified).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	err = s.Enroll(9999, verified)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestAssignTeacher(t *testing.T) {
	s, db := newCourseService(t)

	course, err := s.CreateCourse(CreateCourseReq{Title: "Number Theory"})
	require.NoError(t, err)
	teacherID := createTeacher(t, db, "t@example.com")

	require.NoError(t, s.AssignTeacher(teacherID, course.ID))

	// 重复指派
	err = s.AssignTeacher(teacherID, course.ID)
	assert.ErrorIs(t, err, util.ErrCourseAssigned)

	err = s.AssignTeacher(9999, course.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	err = s.AssignTeacher(teacherID, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)

	courses, err := s.Repo.ListTeacherCourses(teacherID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Number Theory", courses[0].Title)
}
