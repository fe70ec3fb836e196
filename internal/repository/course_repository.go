package repository

import (
	"mathwave_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// CreateWithPrices 课程与区域定价作为一个事务落库，失败整体回滚
func (r *CourseRepository) CreateWithPrices(course *model.Course, prices []model.CoursePrice) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		for i := range prices {
			prices[i].CourseID = course.ID
			if err := tx.Create(&prices[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Order("created_at desc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListPrices(courseIDs []uint) ([]model.CoursePrice, error) {
	var prices []model.CoursePrice
	err := r.DB.Where("course_id IN ?", courseIDs).Find(&prices).Error
	return prices, err
}

// TeacherOfCourseRow 课程关联教师的展示信息
type TeacherOfCourseRow struct {
	CourseID  uint   `json:"-"`
	TeacherID uint   `json:"teacher_id"`
	FullName  string `json:"full_name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func (r *CourseRepository) ListCourseTeachers(courseIDs []uint) ([]TeacherOfCourseRow, error) {
	var rows []TeacherOfCourseRow
	err := r.DB.Table("teacher_courses tc").
		Select("tc.course_id, tp.user_id as teacher_id, tp.full_name, tp.bio, tp.avatar_url").
		Joins("JOIN teacher_profiles tp ON tp.user_id = tc.teacher_id").
		Where("tc.course_id IN ? AND tc.deleted_at IS NULL", courseIDs).
		Scan(&rows).Error
	return rows, err
}

// FindPrice 某课程在某地区的定价；没有配置时返回 gorm.ErrRecordNotFound
func (r *CourseRepository) FindPrice(courseID, regionID uint) (*model.CoursePrice, error) {
	var price model.CoursePrice
	err := r.DB.Where("course_id = ? AND region_id = ?", courseID, regionID).First(&price).Error
	return &price, err
}

func (r *CourseRepository) AssignTeacher(teacherID, courseID uint) error {
	return r.DB.Create(&model.TeacherCourse{TeacherID: teacherID, CourseID: courseID}).Error
}

func (r *CourseRepository) IsTeacherAssigned(teacherID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.TeacherCourse{}).
		Where("teacher_id = ? AND course_id = ?", teacherID, courseID).
		Count(&count).Error
	return count > 0, err
}

// Enroll 课程报名按冲突忽略，重复报名是幂等操作
func (r *CourseRepository) Enroll(courseID, studentID uint) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CourseEnrollment{CourseID: courseID, StudentID: studentID}).Error
}

func (r *CourseRepository) ListEnrolledCourseIDs(studentID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.CourseEnrollment{}).
		Where("student_id = ?", studentID).
		Pluck("course_id", &ids).Error
	return ids, err
}

// EnrolledCourseRow 学生已报名课程的列表行
type EnrolledCourseRow struct {
	CourseID    uint   `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *CourseRepository) ListEnrolledCourses(studentID uint) ([]EnrolledCourseRow, error) {
	var rows []EnrolledCourseRow
	err := r.DB.Table("enrollments e").
		Select("c.id as course_id, c.title, c.description").
		Joins("JOIN courses c ON c.id = e.course_id").
		Where("e.student_id = ? AND e.deleted_at IS NULL", studentID).
		Order("c.title asc").
		Scan(&rows).Error
	return rows, err
}

func (r *CourseRepository) IsStudentEnrolled(courseID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CourseEnrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) ListTeacherCourses(teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Table("courses").
		Joins("JOIN teacher_courses tc ON tc.course_id = courses.id").
		Where("tc.teacher_id = ? AND tc.deleted_at IS NULL", teacherID).
		Find(&courses).Error
	return courses, err
}

// ParentRow 教师名下学生的家长信息（去重）
type ParentRow struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	PhoneNo  string `json:"phone_no"`
}

// ListParentsOfTaughtStudents 教师所授课程的学生家长，分页去重
func (r *CourseRepository) ListParentsOfTaughtStudents(teacherID uint, page, limit int) ([]ParentRow, int64, error) {
	base := r.DB.Table("teacher_courses tc").
		Joins("JOIN enrollments e ON e.course_id = tc.course_id").
		Joins("JOIN student_profiles sp ON sp.user_id = e.student_id").
		Joins("JOIN parent_profiles pp ON pp.user_id = sp.parent_id").
		Where("tc.teacher_id = ? AND tc.deleted_at IS NULL", teacherID)

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("pp.user_id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var rows []ParentRow
	err := base.Session(&gorm.Session{}).
		Select("DISTINCT pp.user_id, u.email, pp.full_name, pp.phone_no").
		Joins("JOIN users u ON u.id = pp.user_id").
		Order("pp.full_name").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}
