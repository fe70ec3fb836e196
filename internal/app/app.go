package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mathwave_backend/internal/config"
	"mathwave_backend/internal/controller"
	"mathwave_backend/internal/repository"
	"mathwave_backend/internal/service"
	"mathwave_backend/pkg/database"
	"mathwave_backend/pkg/logger"
	"mathwave_backend/pkg/monitoring"
	"mathwave_backend/pkg/security"
	"mathwave_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user        *repository.UserRepository
	quiz        *repository.QuizRepository
	region      *repository.RegionRepository
	course      *repository.CourseRepository
	class       *repository.ClassRepository
	test        *repository.TestRepository
	scholarship *repository.ScholarshipRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	quiz        *service.QuizService
	course      *service.CourseService
	admin       *service.AdminService
	student     *service.StudentService
	teacher     *service.TeacherService
	zoom        *service.ZoomService
	class       *service.ClassService
	scholarship *service.ScholarshipService
}

type controllers struct {
	auth        *controller.AuthController
	quiz        *controller.QuizController
	admin       *controller.AdminController
	course      *controller.CourseController
	student     *controller.StudentController
	teacher     *controller.TeacherController
	class       *controller.ClassController
	scholarship *controller.ScholarshipController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		quiz:        repository.NewQuizRepository(db),
		region:      repository.NewRegionRepository(db),
		course:      repository.NewCourseRepository(db),
		class:       repository.NewClassRepository(db),
		test:        repository.NewTestRepository(db),
		scholarship: repository.NewScholarshipRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	mailer := service.NewMailer(&cfg.Email, logger.Log)
	s.auth = service.NewAuthService(db, repos.user, rdb, mailer, cfg, logger.Log)
	s.quiz = service.NewQuizService(repos.quiz, repos.user)
	s.course = service.NewCourseService(repos.course, repos.user)
	s.admin = service.NewAdminService(repos.user, repos.region)
	s.student = service.NewStudentService(db, repos.user, repos.course, repos.test, repos.class, s.storage)
	s.teacher = service.NewTeacherService(repos.course, repos.test)
	s.zoom = service.NewZoomService(&cfg.Zoom, repos.class, logger.Log)
	s.class = service.NewClassService(repos.class, repos.course, repos.user, s.zoom)
	s.scholarship = service.NewScholarshipService(repos.scholarship)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		quiz:        controller.NewQuizController(s.quiz),
		admin:       controller.NewAdminController(s.admin, s.course),
		course:      controller.NewCourseController(s.course),
		student:     controller.NewStudentController(s.student),
		teacher:     controller.NewTeacherController(s.teacher),
		class:       controller.NewClassController(s.class, s.zoom),
		scholarship: controller.NewScholarshipController(s.scholarship),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式默认不自动迁移，需要 -migrate 显式开启
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
			log.Fatalf("Failed to migrate database: %v", err)
		}
		database.SeedRegions(db)
		log.Println("Database migration completed")
	}

	if cfg.MigrateOnly {
		log.Println("Migration completed, exiting (migrate-only mode)")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("mathwave-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Sync()
	log.Println("Server exiting")
}
