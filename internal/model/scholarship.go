package model

import "time"

type Scholarship struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Eligibility string     `gorm:"type:text" json:"eligibility"`
	Amount      float64    `json:"amount"`
	Deadline    *time.Time `json:"deadline"`
	DocumentURL string     `gorm:"size:500" json:"documentUrl"`
	CreatedBy   uint       `gorm:"index" json:"createdBy"`
}

func (Scholarship) TableName() string {
	return "scholarships"
}
