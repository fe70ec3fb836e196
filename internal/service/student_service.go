package service

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StudentService 学生端：身份证明上传、已报名课程、课程测试与直播课
type StudentService struct {
	DB         *gorm.DB
	UserRepo   *repository.UserRepository
	CourseRepo *repository.CourseRepository
	TestRepo   *repository.TestRepository
	ClassRepo  *repository.ClassRepository
	Storage    *StorageService
}

func NewStudentService(db *gorm.DB, userRepo *repository.UserRepository, courseRepo *repository.CourseRepository,
	testRepo *repository.TestRepository, classRepo *repository.ClassRepository, storage *StorageService) *StudentService {
	return &StudentService{
		DB:         db,
		UserRepo:   userRepo,
		CourseRepo: courseRepo,
		TestRepo:   testRepo,
		ClassRepo:  classRepo,
		Storage:    storage,
	}
}

type IDProofReq struct {
	ParentEmail    string
	ParentFullName string
	ParentPhoneNo  string
}

// UploadIDProof 上传身份证明并登记家长。家长邮箱不存在时自动建号
// （随机密码、待验证状态），档案更新与家长建号在同一事务内完成。
// 上传会把档案的审核状态重置，等待管理员重新审核。
func (s *StudentService) UploadIDProof(ctx context.Context, studentID uint, file *multipart.FileHeader, req IDProofReq) (*model.StudentProfile, error) {
	profile, err := s.UserRepo.FindStudentProfile(studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	url, err := s.Storage.UploadMultipart(ctx, "id-proofs", file)
	if err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if req.ParentEmail != "" {
			parentID, err := s.findOrCreateParent(tx, req)
			if err != nil {
				return err
			}
			profile.ParentID = &parentID
		}

		profile.IDProofURL = url
		profile.IsVerified = false
		return tx.Save(profile).Error
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *StudentService) findOrCreateParent(tx *gorm.DB, req IDProofReq) (uint, error) {
	email := strings.ToLower(strings.TrimSpace(req.ParentEmail))

	var parent model.User
	err := tx.Where("email = ?", email).First(&parent).Error
	if err == nil {
		return parent.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}

	// 家长首次出现：生成随机密码建号，家长可走找回密码流程设置自己的密码
	randomPassword := model.GenerateUUID()
	hash, err := bcrypt.GenerateFromPassword([]byte(randomPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	parent = model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.Parent,
	}
	if err := tx.Create(&parent).Error; err != nil {
		return 0, err
	}

	if err := tx.Create(&model.ParentProfile{
		UserID:   parent.ID,
		FullName: req.ParentFullName,
		PhoneNo:  req.ParentPhoneNo,
	}).Error; err != nil {
		return 0, err
	}

	return parent.ID, nil
}

func (s *StudentService) ListEnrolledCourses(studentID uint) ([]repository.EnrolledCourseRow, error) {
	return s.CourseRepo.ListEnrolledCourses(studentID)
}

// ListTests 学生已报名课程下的全部测试，到了测试日期才可参加
func (s *StudentService) ListTests(studentID uint) ([]repository.TestRow, error) {
	courseIDs, err := s.CourseRepo.ListEnrolledCourseIDs(studentID)
	if err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return []repository.TestRow{}, nil
	}

	rows, err := s.TestRepo.ListForCourses(courseIDs)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range rows {
		rows[i].Joinable = !rows[i].TestDate.After(now)
	}
	return rows, nil
}

// ListClasses 学生已报名课程下的直播课，按开课时间倒序
func (s *StudentService) ListClasses(studentID uint) ([]model.Class, error) {
	courseIDs, err := s.CourseRepo.ListEnrolledCourseIDs(studentID)
	if err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return []model.Class{}, nil
	}
	return s.ClassRepo.ListByCourseIDs(courseIDs)
}

// JoinClass 取直播课的入会链接，要求学生已报名该课所属课程
func (s *StudentService) JoinClass(classID, studentID uint) (string, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", util.ErrClassNotFound
		}
		return "", err
	}

	enrolled, err := s.CourseRepo.IsStudentEnrolled(class.CourseID, studentID)
	if err != nil {
		return "", err
	}
	if !enrolled {
		return "", util.ErrNotEnrolledInClass
	}

	return class.JoinURL, nil
}
