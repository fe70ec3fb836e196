package model

import "time"

// Class 通过 Zoom 排课产生的直播课记录
type Class struct {
	BaseModel
	CourseID      uint      `gorm:"index;not null" json:"courseId"`
	UserID        uint      `gorm:"index;not null" json:"userId"` // 排课教师
	FullName      string    `gorm:"size:100" json:"fullName"`
	Topic         string    `gorm:"size:200;not null" json:"topic"`
	StartTime     time.Time `json:"startTime"`
	Duration      int       `json:"duration"` // 分钟
	ZoomMeetingID int64     `json:"zoomMeetingId"`
	JoinURL       string    `gorm:"size:500" json:"joinUrl"`
	StartURL      string    `gorm:"size:1000" json:"-"` // 主持人链接，不对学生暴露
}

func (Class) TableName() string {
	return "classes"
}

// ZoomCredential 教师账号与 Zoom 的 OAuth 授权凭据
type ZoomCredential struct {
	BaseModel
	UserID       uint      `gorm:"uniqueIndex;not null" json:"userId"`
	AccessToken  string    `gorm:"size:1000" json:"-"`
	RefreshToken string    `gorm:"size:1000" json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func (ZoomCredential) TableName() string {
	return "zoom_credentials"
}
