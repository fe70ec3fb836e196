package model

import (
	"time"
)

type UserRole string

const (
	Admin   UserRole = "ADMIN"
	Student UserRole = "STUDENT"
	Teacher UserRole = "TEACHER"
	Parent  UserRole = "PARENT"
)

// swagger:model User
type User struct {
	BaseModel
	Email              string     `gorm:"size:100;unique;not null" json:"email"`
	PasswordHash       string     `gorm:"size:100;not null" json:"-"`
	Role               UserRole   `gorm:"size:20;not null;default:'STUDENT'" json:"role"` // 取值在应用层约束为四种角色之一
	IsVerified         bool       `gorm:"default:false" json:"isVerified"` // 邮箱是否已通过 OTP 验证
	EmailCode          string     `gorm:"size:10" json:"-"`
	EmailCodeExpiresAt *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// StudentProfile 学生档案。GradeLevel 为空表示尚未填写年级，
// 测验资格判断会将其视为不合格。
type StudentProfile struct {
	BaseModel
	UserID     uint    `gorm:"uniqueIndex;not null" json:"userId"`
	FullName   string  `gorm:"size:100" json:"fullName"`
	Age        int     `json:"age"`
	GradeLevel *int    `json:"gradeLevel"`
	PhoneNo    string  `gorm:"size:30" json:"phoneNo"`
	RegionID   *uint   `gorm:"index" json:"regionId"`
	IDProofURL string  `gorm:"size:255" json:"idProofUrl"`
	IsVerified bool    `gorm:"default:false" json:"isVerified"` // 身份证明是否通过管理员审核
	ParentID   *uint   `gorm:"index" json:"parentId"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

type TeacherProfile struct {
	BaseModel
	UserID    uint   `gorm:"uniqueIndex;not null" json:"userId"`
	FullName  string `gorm:"size:100" json:"fullName"`
	Bio       string `gorm:"type:text" json:"bio"`
	AvatarURL string `gorm:"size:255" json:"avatarUrl"`
}

func (TeacherProfile) TableName() string {
	return "teacher_profiles"
}

type ParentProfile struct {
	BaseModel
	UserID   uint   `gorm:"uniqueIndex;not null" json:"userId"`
	FullName string `gorm:"size:100" json:"fullName"`
	PhoneNo  string `gorm:"size:30" json:"phoneNo"`
}

func (ParentProfile) TableName() string {
	return "parent_profiles"
}
