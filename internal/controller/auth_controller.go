package controller

import (
	"mathwave_backend/internal/service"
	"mathwave_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Service: svc}
}

func handleAuthError(ctx *gin.Context, err error) {
	switch err {
	case util.ErrUserNotFound:
		util.NotFoundMessage(ctx, err.Error())
	case util.ErrEmailRegistered, util.ErrInvalidOTP, util.ErrAlreadyVerified, util.ErrInvalidResetToken:
		util.BadRequest(ctx, err.Error())
	case util.ErrInvalidCredentials:
		util.Error(ctx, 401, err.Error())
	case util.ErrOTPThrottled:
		util.Error(ctx, 429, err.Error())
	case util.ErrEmailNotVerified:
		util.ForbiddenMessage(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 注册账号（按角色建档并发送邮箱验证码）
// @Tags 认证模块
// @Accept json
// @Produce json
// @Param body body service.SignupReq true "注册信息"
// @Success 201 {object} util.Response
// @Router /api/auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req service.SignupReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.Service.Signup(req)
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": user.ID, "email": user.Email, "role": user.Role})
}

// @Summary 邮箱验证码校验
// @Tags 认证模块
// @Accept json
// @Produce json
// @Param body body map[string]string true "{'email': '', 'code': ''}"
// @Success 200 {object} util.Response
// @Router /api/auth/verify-email [post]
func (c *AuthController) VerifyEmail(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.VerifyEmail(req.Email, req.Code); err != nil {
		handleAuthError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "email verified", nil)
}

// @Summary 重发邮箱验证码
// @Tags 认证模块
// @Accept json
// @Produce json
// @Param body body map[string]string true "{'email': ''}"
// @Success 200 {object} util.Response
// @Router /api/auth/resend-otp [post]
func (c *AuthController) ResendOTP(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.ResendOTP(ctx.Request.Context(), req.Email); err != nil {
		handleAuthError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "verification code sent", nil)
}

// @Summary 登录（签发访问/刷新双令牌）
// @Tags 认证模块
// @Accept json
// @Produce json
// @Param body body map[string]string true "{'email': '', 'password': ''}"
// @Success 200 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, tokens, err := c.Service.Login(req.Email, req.Password)
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	c.setTokenCookies(ctx, tokens.AccessToken, tokens.RefreshToken)
	util.Success(ctx, gin.H{
		"user":   gin.H{"id": user.ID, "email": user.Email, "role": user.Role},
		"tokens": tokens,
	})
}

// 令牌同时写 HttpOnly Cookie，浏览器端免手动携带
func (c *AuthController) setTokenCookies(ctx *gin.Context, access, refresh string) {
	jwtCfg := c.Service.Config.JWT
	ctx.SetCookie("accessToken", access, int(jwtCfg.ExpireTime.Seconds()), "/", "", false, true)
	if refresh != "" {
		ctx.SetCookie("refreshToken", refresh, int(jwtCfg.RefreshExpireTime.Seconds()), "/", "", false, true)
	}
}

// @Summary 退出登录（清除令牌 Cookie）
// @Tags 认证模块
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie("accessToken", "", -1, "/", "", false, true)
	ctx.SetCookie("refreshToken", "", -1, "/", "", false, true)
	util.SuccessMessage(ctx, "logged out", nil)
}

// @Summary 刷新访问令牌
// @Tags 认证模块
// @Accept json
// @Produce json
// @Param body body map[string]string false "{'refresh_token': ''}，缺省时取 refreshToken Cookie"
// @Success 200 {object} util.Response
// @Router /api/auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = ctx.ShouldBindJSON(&req)
	// 浏览器端走 Cookie，接口调用方走请求体
	if req.RefreshToken == "" {
		if cookie, err := ctx.Cookie("refreshToken"); err == nil {
			req.RefreshToken = cookie
		}
	}
	if req.RefreshToken == "" {
		util.BadRequest(ctx, "refresh_token is required")
		return
	}

	access, err := c.Service.RefreshToken(req.RefreshToken)
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	c.setTokenCookies(ctx, access, "")
	util.Success(ctx, gin.H{"accessToken": access})
}

// @Summary 发起找回密码（发送重置链接邮件）
// @Tags 认证模块
// @Accept json
// @Produce json
// @Param body body map[string]string true "{'email': ''}"
// @Success 200 {object} util.Response
// @Router /api/auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		handleAuthError(ctx, err)
		return
	}

	// 无论邮箱是否存在都返回同样的提示
	util.SuccessMessage(ctx, "if the email exists, a reset link has been sent", nil)
}

// @Summary 凭重置令牌设置新密码
// @Tags 认证模块
// @Accept json
// @Produce json
// @Param body body map[string]string true "{'token': '', 'password': ''}"
// @Success 200 {object} util.Response
// @Router /api/auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.ResetPassword(ctx.Request.Context(), req.Token, req.Password); err != nil {
		handleAuthError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "password updated", nil)
}

// @Summary 当前登录用户信息（含角色档案）
// @Tags 认证模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	out, err := c.Service.Me(user)
	if err != nil {
		handleAuthError(ctx, err)
		return
	}

	util.Success(ctx, out)
}
