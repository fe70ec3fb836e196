package service

import (
	"context"
	"time"

	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"

	"gorm.io/gorm"
)

// ClassService 直播课排课：教师经 Zoom 建会后落库为课程下的班课
type ClassService struct {
	ClassRepo  *repository.ClassRepository
	CourseRepo *repository.CourseRepository
	UserRepo   *repository.UserRepository
	Zoom       *ZoomService
}

func NewClassService(classRepo *repository.ClassRepository, courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository, zoom *ZoomService) *ClassService {
	return &ClassService{ClassRepo: classRepo, CourseRepo: courseRepo, UserRepo: userRepo, Zoom: zoom}
}

type ScheduleClassReq struct {
	CourseID  uint      `json:"course_id" binding:"required"`
	Topic     string    `json:"topic" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	Duration  int       `json:"duration" binding:"required,min=1"`
}

// Schedule 排一节直播课：校验教师被指派到该课程，经 Zoom 创建会议后
// 把会议号与入会链接落库。主持人链接只保存，不随列表下发。
func (s *ClassService) Schedule(ctx context.Context, teacherID uint, req ScheduleClassReq) (*model.Class, error) {
	if _, err := s.CourseRepo.FindByID(req.CourseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	assigned, err := s.CourseRepo.IsTeacherAssigned(teacherID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, util.ErrNotCourseTeacher
	}

	meeting, err := s.Zoom.CreateMeeting(ctx, teacherID, req.Topic, req.StartTime, req.Duration)
	if err != nil {
		return nil, err
	}

	fullName := ""
	if profile, err := s.UserRepo.FindTeacherProfile(teacherID); err == nil {
		fullName = profile.FullName
	}

	class := &model.Class{
		CourseID:      req.CourseID,
		UserID:        teacherID,
		FullName:      fullName,
		Topic:         req.Topic,
		StartTime:     req.StartTime,
		Duration:      req.Duration,
		ZoomMeetingID: meeting.ID,
		JoinURL:       meeting.JoinURL,
		StartURL:      meeting.StartURL,
	}
	if err := s.ClassRepo.Create(class); err != nil {
		return nil, err
	}
	return class, nil
}

// ListForTeacher 教师名下全部课程的直播课
func (s *ClassService) ListForTeacher(teacherID uint) ([]model.Class, error) {
	courses, err := s.CourseRepo.ListTeacherCourses(teacherID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return []model.Class{}, nil
	}

	ids := make([]uint, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	return s.ClassRepo.ListByCourseIDs(ids)
}

// GetClass 直播课详情。主持人链接不随响应序列化。
func (s *ClassService) GetClass(classID uint) (*model.Class, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}

// StartURL 教师取主持人开播链接，仅限排课者本人
func (s *ClassService) StartURL(classID, teacherID uint) (string, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", util.ErrClassNotFound
		}
		return "", err
	}

	if class.UserID != teacherID {
		return "", util.ErrPermissionDenied
	}
	return class.StartURL, nil
}
