package app

import (
	"testing"

	"mathwave_backend/internal/controller"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// 测验相关路径是对外契约，挂载点不可漂移
func TestQuizRoutePaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	a := &App{}
	c := &controllers{
		auth:        &controller.AuthController{},
		quiz:        &controller.QuizController{},
		admin:       &controller.AdminController{},
		scholarship: &controller.ScholarshipController{},
	}

	authGroup := router.Group("/api")
	a.registerQuizRoutes(authGroup, c)
	a.registerAdminRoutes(authGroup, c)

	registered := make(map[string]bool)
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /api/quiz/active-quiz",
		"POST /api/quiz/quiz-enrollment",
		"POST /api/quiz/:quizId/question/:questionNumber/answer",
		"POST /api/quiz/:quizId/submit",
		"GET /api/quiz/:quizId/score",
		"POST /api/admin/quizzes",
		"GET /api/admin/quizzes",
		"POST /api/admin/quizzes/:quizId/answer",
		"PATCH /api/admin/quizzes/:quizId/status",
	}
	for _, route := range want {
		assert.True(t, registered[route], route)
	}
}
