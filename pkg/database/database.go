package database

import (
	"fmt"
	"log"

	"mathwave_backend/internal/config"
	"mathwave_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate 执行全部模型迁移，测试里也会对内存库复用
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.StudentProfile{},
		&model.TeacherProfile{},
		&model.ParentProfile{},
		&model.Region{},
		&model.Course{},
		&model.CoursePrice{},
		&model.TeacherCourse{},
		&model.CourseEnrollment{},
		&model.Class{},
		&model.ZoomCredential{},
		&model.CourseTest{},
		&model.Scholarship{},
		&model.Quiz{},
		&model.QuizAnswerKey{},
		&model.QuizEnrollment{},
		&model.QuizAttempt{},
	)
}

// SeedRegions 默认地区，便于本地起盘后直接建课
func SeedRegions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Region{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		defaultRegions := []model.Region{
			{Name: "India", Currency: "INR", CountryCode: "IN"},
			{Name: "United States", Currency: "USD", CountryCode: "US"},
			{Name: "United Arab Emirates", Currency: "AED", CountryCode: "AE"},
		}
		for _, r := range defaultRegions {
			if err := db.Create(&r).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
