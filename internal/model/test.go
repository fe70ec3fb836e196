package model

import "time"

// CourseTest 教师上传的课程测试（外部链接形式）
type CourseTest struct {
	BaseModel
	CourseID    uint      `gorm:"index;not null" json:"courseId"`
	TeacherID   uint      `gorm:"index;not null" json:"teacherId"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TestDate    time.Time `json:"testDate"`
	TestLink    string    `gorm:"size:500;not null" json:"testLink"`
}

func (CourseTest) TableName() string {
	return "tests"
}
