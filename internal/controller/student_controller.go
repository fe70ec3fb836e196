package controller

import (
	"net/http"
	"strconv"

	"mathwave_backend/internal/service"
	"mathwave_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	Service *service.StudentService
}

func NewStudentController(svc *service.StudentService) *StudentController {
	return &StudentController{Service: svc}
}

// @Summary 上传身份证明并登记家长（家长邮箱首次出现时自动建号）
// @Tags 学生模块
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "身份证明文件"
// @Param parent_email formData string false "家长邮箱"
// @Param parent_full_name formData string false "家长姓名"
// @Param parent_phone_no formData string false "家长电话"
// @Success 200 {object} util.Response
// @Router /api/student/id-proof [post]
func (c *StudentController) UploadIDProof(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	req := service.IDProofReq{
		ParentEmail:    ctx.PostForm("parent_email"),
		ParentFullName: ctx.PostForm("parent_full_name"),
		ParentPhoneNo:  ctx.PostForm("parent_phone_no"),
	}

	profile, err := c.Service.UploadIDProof(ctx.Request.Context(), user.UserID, file, req)
	if err != nil {
		if err == util.ErrUserNotFound {
			util.NotFoundMessage(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "ID proof uploaded, pending review", profile)
}

// @Summary 我报名的课程
// @Tags 学生模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/student/courses [get]
func (c *StudentController) ListCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.Service.ListEnrolledCourses(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}

// @Summary 我报名课程下的测试
// @Tags 学生模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/student/tests [get]
func (c *StudentController) ListTests(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	tests, err := c.Service.ListTests(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, tests)
}

// @Summary 我报名课程下的直播课
// @Tags 学生模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/student/classes [get]
func (c *StudentController) ListClasses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classes, err := c.Service.ListClasses(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, classes)
}

// @Summary 跳转直播课入会链接（需已报名所属课程）
// @Tags 学生模块
// @Security BearerAuth
// @Param id path int true "直播课ID"
// @Success 302
// @Router /api/student/classes/{id}/join [get]
func (c *StudentController) JoinClass(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid class id")
		return
	}

	joinURL, err := c.Service.JoinClass(uint(classID), user.UserID)
	if err != nil {
		switch err {
		case util.ErrClassNotFound:
			util.NotFoundMessage(ctx, err.Error())
		case util.ErrNotEnrolledInClass:
			util.ForbiddenMessage(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.Redirect(http.StatusFound, joinURL)
}
