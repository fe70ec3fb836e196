package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title          string     `gorm:"size:200;not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	BasePrice      *float64   `json:"basePrice"`
	StartDate      *time.Time `json:"startDate"`
	Duration       string     `gorm:"size:100" json:"duration"`
	TargetAudience string     `gorm:"size:200" json:"targetAudience"`
	WeeklyOutline  string     `gorm:"type:text" json:"weeklyOutline"`
}

func (Course) TableName() string {
	return "courses"
}

// CoursePrice 课程的地区定价，与课程插入同属一个事务
type CoursePrice struct {
	BaseModel
	CourseID uint    `gorm:"index;uniqueIndex:uq_course_region;not null" json:"courseId"`
	RegionID uint    `gorm:"uniqueIndex:uq_course_region;not null" json:"regionId"`
	Price    float64 `gorm:"not null" json:"price"`
}

func (CoursePrice) TableName() string {
	return "course_prices"
}

type TeacherCourse struct {
	BaseModel
	TeacherID uint `gorm:"index;uniqueIndex:uq_teacher_course;not null" json:"teacherId"`
	CourseID  uint `gorm:"uniqueIndex:uq_teacher_course;not null" json:"courseId"`
}

func (TeacherCourse) TableName() string {
	return "teacher_courses"
}

// CourseEnrollment 课程报名。重复报名按冲突忽略处理（与测验报名不同）
type CourseEnrollment struct {
	BaseModel
	CourseID  uint `gorm:"index;uniqueIndex:uq_course_student;not null" json:"courseId"`
	StudentID uint `gorm:"uniqueIndex:uq_course_student;not null" json:"studentId"`
}

func (CourseEnrollment) TableName() string {
	return "enrollments"
}
