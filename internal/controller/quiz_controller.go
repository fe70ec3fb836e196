package controller

import (
	"strconv"

	"mathwave_backend/internal/service"
	"mathwave_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// handleQuizError 测验域错误到 HTTP 状态码的统一映射
func handleQuizError(ctx *gin.Context, err error) {
	switch err {
	case util.ErrQuizNotFound, util.ErrNoActiveQuiz:
		util.NotFoundMessage(ctx, err.Error())
	case util.ErrOnlyStudents, util.ErrGradeIneligible, util.ErrNotEnrolled,
		util.ErrQuizSubmitted, util.ErrNoMoreAttempts, util.ErrScoreNotAvailable:
		util.ForbiddenMessage(ctx, err.Error())
	case util.ErrAlreadyEnrolled, util.ErrQuizAlreadyDone, util.ErrInvalidQuestionNum,
		util.ErrQuizWindowInvalid, util.ErrQuizStatusInvalid,
		util.ErrAnswerKeyCount, util.ErrAnswerKeyFormat:
		util.BadRequest(ctx, err.Error())
	default:
		// 含 ErrAnswerKeyMissing：答案键缺失属于数据配置缺陷
		util.LogInternalError(ctx, err)
	}
}

// @Summary 创建测验
// @Tags 测验管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateQuizReq true "测验信息"
// @Success 201 {object} util.Response
// @Router /api/admin/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req service.CreateQuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.CreateQuiz(req)
	if err != nil {
		handleQuizError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// @Summary 设置测验答案键（整套替换，必须恰好 5 题）
// @Tags 测验管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "测验ID"
// @Param body body []service.AnswerKeyEntryReq true "答案键"
// @Success 201 {object} util.Response
// @Router /api/admin/quizzes/{quizId}/answer [post]
func (c *QuizController) SetAnswerKey(ctx *gin.Context) {
	quizID, err := strconv.ParseUint(ctx.Param("quizId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req struct {
		Answers []service.AnswerKeyEntryReq `json:"answers" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.SetAnswerKey(uint(quizID), req.Answers); err != nil {
		handleQuizError(ctx, err)
		return
	}

	util.Created(ctx, nil)
}

// @Summary 测验列表（按创建时间倒序）
// @Tags 测验管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.Service.ListQuizzes()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary 更新测验状态（激活时自动降级其它测验）
// @Tags 测验管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "测验ID"
// @Param body body map[string]string true "{'status': 'active'}"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{quizId}/status [patch]
func (c *QuizController) UpdateStatus(ctx *gin.Context) {
	quizID, err := strconv.ParseUint(ctx.Param("quizId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.UpdateStatus(uint(quizID), req.Status)
	if err != nil {
		handleQuizError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary 获取当前开放的测验
// @Tags 测验模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/quiz/active-quiz [get]
func (c *QuizController) GetActiveQuiz(ctx *gin.Context) {
	quiz, err := c.Service.GetActiveQuiz()
	if err != nil {
		handleQuizError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary 报名当前开放的测验（八年级及以下学生）
// @Tags 测验模块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/quiz/quiz-enrollment [post]
func (c *QuizController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quiz, err := c.Service.Enroll(user)
	if err != nil {
		handleQuizError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "enrolled", gin.H{"quizId": quiz.ID, "title": quiz.Title})
}

// @Summary 提交单题答案（每题最多两次机会，空答案视为跳过）
// @Tags 测验模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "测验ID"
// @Param questionNumber path int true "题号（1-5）"
// @Param body body map[string]string true "{'answer': '42'}"
// @Success 200 {object} util.Response
// @Router /api/quiz/{quizId}/question/{questionNumber}/answer [post]
func (c *QuizController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := strconv.ParseUint(ctx.Param("quizId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}
	questionNumber, err := strconv.Atoi(ctx.Param("questionNumber"))
	if err != nil {
		util.BadRequest(ctx, util.ErrInvalidQuestionNum.Error())
		return
	}

	var req struct {
		Answer string `json:"answer"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitAnswer(user, uint(quizID), questionNumber, req.Answer)
	if err != nil {
		handleQuizError(ctx, err)
		return
	}

	if result.Skipped {
		util.SuccessMessage(ctx, "question skipped", result)
		return
	}
	util.SuccessMessage(ctx, "answer recorded", result)
}

// @Summary 终态提交整套测验（提交后不可再答题）
// @Tags 测验模块
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/{quizId}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := strconv.ParseUint(ctx.Param("quizId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	if err := c.Service.SubmitFullQuiz(user.UserID, uint(quizID)); err != nil {
		handleQuizError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "quiz submitted", nil)
}

// @Summary 查询测验总分（需先终态提交）
// @Tags 测验模块
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quiz/{quizId}/score [get]
func (c *QuizController) GetTotalScore(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := strconv.ParseUint(ctx.Param("quizId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	total, err := c.Service.GetTotalScore(user, uint(quizID))
	if err != nil {
		handleQuizError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"quiz_id": quizID, "totalScore": total})
}
