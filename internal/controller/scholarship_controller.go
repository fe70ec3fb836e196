package controller

import (
	"mathwave_backend/internal/service"
	"mathwave_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ScholarshipController struct {
	Service *service.ScholarshipService
}

func NewScholarshipController(svc *service.ScholarshipService) *ScholarshipController {
	return &ScholarshipController{Service: svc}
}

// @Summary 发布奖学金
// @Tags 奖学金模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateScholarshipReq true "奖学金信息"
// @Success 201 {object} util.Response
// @Router /api/admin/scholarships [post]
func (c *ScholarshipController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateScholarshipReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sch, err := c.Service.Create(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, sch)
}

// @Summary 奖学金列表（按截止日期升序）
// @Tags 奖学金模块
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/scholarships [get]
func (c *ScholarshipController) List(ctx *gin.Context) {
	list, err := c.Service.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, list)
}
