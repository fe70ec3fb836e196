package app

import (
	"mathwave_backend/docs"
	"mathwave_backend/internal/config"
	"mathwave_backend/internal/middleware"
	"mathwave_backend/internal/model"
	"mathwave_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerQuizRoutes(authGroup, c)
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/regions", c.admin.ListRegions)
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)
		public.GET("/classes/:id", c.class.GetClass)
		public.GET("/scholarships", c.scholarship.List)

		auth := public.Group("/auth")
		{
			auth.POST("/signup", c.auth.Signup)
			auth.POST("/login", c.auth.Login)
			auth.POST("/logout", c.auth.Logout)
			auth.POST("/verify-email", c.auth.VerifyEmail)
			auth.POST("/resend-otp", c.auth.ResendOTP)
			auth.POST("/refresh", c.auth.Refresh)
			auth.POST("/forgot-password", c.auth.ForgotPassword)
			auth.POST("/reset-password", c.auth.ResetPassword)
		}

		// Zoom 回调由 Zoom 服务端发起，state 携带用户身份
		public.GET("/zoom/callback", c.class.ZoomCallback)
	}
}

// 测验模块：报名与答题仅对学生开放，查看与终态提交所有登录用户可用
func (a *App) registerQuizRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.Me)

	quiz := rg.Group("/quiz")
	{
		quiz.GET("/active-quiz", c.quiz.GetActiveQuiz)
		quiz.POST("/:quizId/submit", c.quiz.SubmitQuiz)

		student := quiz.Group("/")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.POST("/quiz-enrollment", c.quiz.Enroll)
			student.POST("/:quizId/question/:questionNumber/answer", c.quiz.SubmitAnswer)
			student.GET("/:quizId/score", c.quiz.GetTotalScore)
		}
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/courses/:id/price", c.course.GetPrice)

	student := rg.Group("/student")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.POST("/id-proof", c.student.UploadIDProof)
		student.GET("/courses", c.student.ListCourses)
		student.GET("/tests", c.student.ListTests)
		student.GET("/classes", c.student.ListClasses)
		student.GET("/classes/:id/join", c.student.JoinClass)
	}

	enroll := rg.Group("/courses")
	enroll.Use(middleware.RoleMiddleware(model.Student))
	{
		enroll.POST("/:id/enroll", c.course.Enroll)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/zoom/auth", middleware.RoleMiddleware(model.Teacher), c.class.ZoomAuth)

	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/courses", c.teacher.ListCourses)
		teacher.POST("/tests", c.teacher.CreateTest)
		teacher.GET("/parents", c.teacher.ListParents)
		teacher.POST("/classes", c.class.ScheduleClass)
		teacher.GET("/classes", c.class.ListClasses)
		teacher.GET("/classes/:id/start", c.class.StartClass)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/regions", c.admin.CreateRegion)
		admin.GET("/students", c.admin.ListStudents)
		admin.GET("/teachers", c.admin.ListTeachers)
		admin.PATCH("/students/:id/verify", c.admin.VerifyStudent)

		admin.POST("/courses", c.admin.CreateCourse)
		admin.POST("/courses/assign", c.admin.AssignCourse)

		admin.POST("/scholarships", c.scholarship.Create)

		admin.POST("/quizzes", c.quiz.CreateQuiz)
		admin.GET("/quizzes", c.quiz.ListQuizzes)
		admin.POST("/quizzes/:quizId/answer", c.quiz.SetAnswerKey)
		admin.PATCH("/quizzes/:quizId/status", c.quiz.UpdateStatus)
	}
}
