package model

// Region 地区，用于课程区域定价
type Region struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Currency    string `gorm:"size:10" json:"currency"`
	CountryCode string `gorm:"size:10" json:"countryCode"`
}

func (Region) TableName() string {
	return "regions"
}
