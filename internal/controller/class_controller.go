package controller

import (
	"net/http"
	"strconv"

	"mathwave_backend/internal/service"
	"mathwave_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ClassController 直播课排课与 Zoom 授权回调
type ClassController struct {
	Service *service.ClassService
	Zoom    *service.ZoomService
}

func NewClassController(svc *service.ClassService, zoom *service.ZoomService) *ClassController {
	return &ClassController{Service: svc, Zoom: zoom}
}

// @Summary 跳转 Zoom OAuth 授权页
// @Tags 直播课模块
// @Security BearerAuth
// @Success 302
// @Router /api/zoom/auth [get]
func (c *ClassController) ZoomAuth(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	ctx.Redirect(http.StatusFound, c.Zoom.AuthURL(user.UserID))
}

// @Summary Zoom OAuth 回调（state 为发起授权的用户ID）
// @Tags 直播课模块
// @Produce json
// @Param code query string true "授权码"
// @Param state query string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/zoom/callback [get]
func (c *ClassController) ZoomCallback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		util.BadRequest(ctx, "code and state are required")
		return
	}

	userID, err := strconv.ParseUint(state, 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid state")
		return
	}

	if err := c.Zoom.HandleCallback(uint(userID), code); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "Zoom connected", nil)
}

// @Summary 直播课详情
// @Tags 直播课模块
// @Produce json
// @Param id path int true "直播课ID"
// @Success 200 {object} util.Response
// @Router /api/classes/{id} [get]
func (c *ClassController) GetClass(ctx *gin.Context) {
	classID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid class id")
		return
	}

	class, err := c.Service.GetClass(uint(classID))
	if err != nil {
		if err == util.ErrClassNotFound {
			util.NotFoundMessage(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, class)
}

// @Summary 排一节直播课（经 Zoom 创建会议）
// @Tags 直播课模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ScheduleClassReq true "排课信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/classes [post]
func (c *ClassController) ScheduleClass(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ScheduleClassReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.Service.Schedule(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		switch err {
		case util.ErrCourseNotFound:
			util.NotFoundMessage(ctx, err.Error())
		case util.ErrNotCourseTeacher:
			util.ForbiddenMessage(ctx, err.Error())
		case util.ErrZoomNotConnected:
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, class)
}

// @Summary 我排的直播课列表
// @Tags 直播课模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/teacher/classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	classes, err := c.Service.ListForTeacher(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, classes)
}

// @Summary 获取主持人开播链接（仅排课教师本人）
// @Tags 直播课模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "直播课ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/classes/{id}/start [get]
func (c *ClassController) StartClass(ctx *gin.Context) {
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

	startURL, err := c.Service.StartURL(uint(classID), user.UserID)
	if err != nil {
		switch err {
		case util.ErrClassNotFound:
			util.NotFoundMessage(ctx, err.Error())
		case util.ErrPermissionDenied:
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"startUrl": startURL})
}
