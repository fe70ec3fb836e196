package service

import (
	"time"

	"mathwave_backend/internal/model"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	Repo     *repository.CourseRepository
	UserRepo *repository.UserRepository
}

func NewCourseService(repo *repository.CourseRepository, userRepo *repository.UserRepository) *CourseService {
	return &CourseService{Repo: repo, UserRepo: userRepo}
}

type CoursePriceReq struct {
	RegionID uint    `json:"region_id" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
}

type CreateCourseReq struct {
	Title          string           `json:"title" binding:"required"`
	Description    string           `json:"description"`
	BasePrice      *float64         `json:"base_price"`
	StartDate      *time.Time       `json:"start_date"`
	Duration       string           `json:"duration"`
	TargetAudience string           `json:"target_audience"`
	WeeklyOutline  string           `json:"weekly_outline"`
	Prices         []CoursePriceReq `json:"prices"`
}

// CreateCourse 课程与区域定价一并落库，定价失败则课程回滚
func (s *CourseService) CreateCourse(req CreateCourseReq) (*model.Course, error) {
	course := &model.Course{
		Title:          req.Title,
		Description:    req.Description,
		BasePrice:      req.BasePrice,
		StartDate:      req.StartDate,
		Duration:       req.Duration,
		TargetAudience: req.TargetAudience,
		WeeklyOutline:  req.WeeklyOutline,
	}

	prices := make([]model.CoursePrice, 0, len(req.Prices))
	for _, p := range req.Prices {
		prices = append(prices, model.CoursePrice{RegionID: p.RegionID, Price: p.Price})
	}

	if err := s.Repo.CreateWithPrices(course, prices); err != nil {
		return nil, err
	}
	return course, nil
}

// CourseView 课程列表行：课程本体加上区域定价与授课教师
type CourseView struct {
	model.Course
	Prices   []model.CoursePrice             `json:"prices"`
	Teachers []repository.TeacherOfCourseRow `json:"teachers"`
}

// ListCourses 一次性取全部课程，再批量拉定价与教师做内存装配，
// 避免按课程逐条查询
func (s *CourseService) ListCourses() ([]CourseView, error) {
	courses, err := s.Repo.List()
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return []CourseView{}, nil
	}

	ids := make([]uint, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}

	prices, err := s.Repo.ListPrices(ids)
	if err != nil {
		return nil, err
	}
	pricesByCourse := make(map[uint][]model.CoursePrice)
	for _, p := range prices {
		pricesByCourse[p.CourseID] = append(pricesByCourse[p.CourseID], p)
	}

	teachers, err := s.Repo.ListCourseTeachers(ids)
	if err != nil {
		return nil, err
	}
	teachersByCourse := make(map[uint][]repository.TeacherOfCourseRow)
	for _, t := range teachers {
		teachersByCourse[t.CourseID] = append(teachersByCourse[t.CourseID], t)
	}

	views := make([]CourseView, len(courses))
	for i, c := range courses {
		views[i] = CourseView{
			Course:   c,
			Prices:   pricesByCourse[c.ID],
			Teachers: teachersByCourse[c.ID],
		}
	}
	return views, nil
}

// GetCourse 单门课程详情，带区域定价与授课教师
func (s *CourseService) GetCourse(courseID uint) (*CourseView, error) {
	course, err := s.Repo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	prices, err := s.Repo.ListPrices([]uint{courseID})
	if err != nil {
		return nil, err
	}
	teachers, err := s.Repo.ListCourseTeachers([]uint{courseID})
	if err != nil {
		return nil, err
	}

	return &CourseView{Course: *course, Prices: prices, Teachers: teachers}, nil
}

// PriceForStudent 按学生档案所属地区取课程报价；
// 地区未设置或未配置定价时回退到课程基础价。
func (s *CourseService) PriceForStudent(courseID, studentID uint) (float64, error) {
	course, err := s.Repo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, util.ErrCourseNotFound
		}
		return 0, err
	}

	base := 0.0
	if course.BasePrice != nil {
		base = *course.BasePrice
	}

	profile, err := s.UserRepo.FindStudentProfile(studentID)
	if err != nil || profile.RegionID == nil {
		return base, nil
	}

	price, err := s.Repo.FindPrice(courseID, *profile.RegionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return base, nil
		}
		return 0, err
	}
	return price.Price, nil
}

// Enroll 学生报名课程。要求身份证明已通过管理员审核；
// 重复报名是幂等操作，静默成功。
func (s *CourseService) Enroll(courseID, studentID uint) error {
	if _, err := s.Repo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrCourseNotFound
		}
		return err
	}

	profile, err := s.UserRepo.FindStudentProfile(studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrIDProofRequired
		}
		return err
	}
	if !profile.IsVerified {
		return util.ErrIDProofRequired
	}

	return s.Repo.Enroll(courseID, studentID)
}

// AssignTeacher 管理员把课程指派给教师，重复指派报错
func (s *CourseService) AssignTeacher(teacherID, courseID uint) error {
	if _, err := s.Repo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrCourseNotFound
		}
		return err
	}

	if _, err := s.UserRepo.FindTeacherProfile(teacherID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrUserNotFound
		}
		return err
	}

	assigned, err := s.Repo.IsTeacherAssigned(teacherID, courseID)
	if err != nil {
		return err
	}
	if assigned {
		return util.ErrCourseAssigned
	}

	return s.Repo.AssignTeacher(teacherID, courseID)
}
