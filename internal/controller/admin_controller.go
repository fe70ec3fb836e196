package controller

import (
	"strconv"

	"mathwave_backend/internal/service"
	"mathwave_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 管理端：地区、名册、身份审核与课程指派
type AdminController struct {
	Service       *service.AdminService
	CourseService *service.CourseService
}

func NewAdminController(svc *service.AdminService, courseSvc *service.CourseService) *AdminController {
	return &AdminController{Service: svc, CourseService: courseSvc}
}

// @Summary 新增地区
// @Tags 管理模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateRegionReq true "地区信息"
// @Success 201 {object} util.Response
// @Router /api/admin/regions [post]
func (c *AdminController) CreateRegion(ctx *gin.Context) {
	var req service.CreateRegionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	region, err := c.Service.CreateRegion(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, region)
}

// @Summary 地区列表
// @Tags 管理模块
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/regions [get]
func (c *AdminController) ListRegions(ctx *gin.Context) {
	regions, err := c.Service.ListRegions()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, regions)
}

// @Summary 学生名册（含档案与审核状态）
// @Tags 管理模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	students, err := c.Service.ListStudents()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, students)
}

// @Summary 教师名册
// @Tags 管理模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/teachers [get]
func (c *AdminController) ListTeachers(ctx *gin.Context) {
	teachers, err := c.Service.ListTeachers()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, teachers)
}

// @Summary 审核学生身份证明
// @Tags 管理模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学生用户ID"
// @Param body body map[string]bool true "{'verified': true}"
// @Success 200 {object} util.Response
// @Router /api/admin/students/{id}/verify [patch]
func (c *AdminController) VerifyStudent(ctx *gin.Context) {
	studentID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	var req struct {
		Verified *bool `json:"verified" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.VerifyStudent(uint(studentID), *req.Verified); err != nil {
		switch err {
		case util.ErrUserNotFound:
			util.NotFoundMessage(ctx, err.Error())
		case util.ErrIDProofRequired:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMessage(ctx, "verification status updated", nil)
}

// @Summary 创建课程（含区域定价）
// @Tags 管理模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateCourseReq true "课程信息"
// @Success 201 {object} util.Response
// @Router /api/admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var req service.CreateCourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary 指派课程给教师
// @Tags 管理模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body map[string]uint true "{'teacher_id': 1, 'course_id': 2}"
// @Success 200 {object} util.Response
// @Router /api/admin/courses/assign [post]
func (c *AdminController) AssignCourse(ctx *gin.Context) {
	var req struct {
		TeacherID uint `json:"teacher_id" binding:"required"`
		CourseID  uint `json:"course_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.CourseService.AssignTeacher(req.TeacherID, req.CourseID); err != nil {
		switch err {
		case util.ErrCourseNotFound, util.ErrUserNotFound:
			util.NotFoundMessage(ctx, err.Error())
		case util.ErrCourseAssigned:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.SuccessMessage(ctx, "course assigned", nil)
}
