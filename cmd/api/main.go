package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shipai-tjc/logbook-api/internal/config"
	"github.com/shipai-tjc/logbook-api/internal/database"
	"github.com/shipai-tjc/logbook-api/internal/handler"
	"github.com/shipai-tjc/logbook-api/internal/middleware"
	"github.com/shipai-tjc/logbook-api/internal/models"
	"github.com/shipai-tjc/logbook-api/internal/repository"
	"github.com/shipai-tjc/logbook-api/internal/router"
	"github.com/shipai-tjc/logbook-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(database.PostgresOptions{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		LogQueries:      cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Class{},
		&models.Student{},
		&models.Teacher{},
		&models.ClassSession{},
		&models.StudentAttendance{},
		&models.TeacherAttendance{},
		&models.TeacherClassAssignment{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL, cfg.RedisPingTimeout)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	studentService := service.NewStudentService(studentRepo, classRepo, validate, activityService, logger)
	teacherService := service.NewTeacherService(teacherRepo, validate, activityService, logger)
	classService := service.NewClassService(classRepo, validate, activityService, logger)
	sessionService := service.NewSessionService(sessionRepo, attendanceRepo, classRepo, validate, activityService, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, teacherRepo, classRepo, validate, activityService, logger)
	statisticsService := service.NewStatisticsService(studentRepo, teacherRepo, classRepo, sessionRepo, attendanceRepo, logger)
	promotionService := service.NewPromotionService(studentRepo, classRepo, validate, activityService, logger)
	reportService := service.NewReportService(classRepo, sessionRepo, studentRepo, assignmentRepo, redisClient, cfg.ReportCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		TeacherHandler:    handler.NewTeacherHandler(teacherService, logger),
		ClassHandler:      handler.NewClassHandler(classService, logger),
		SessionHandler:    handler.NewSessionHandler(sessionService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		StatisticsHandler: handler.NewStatisticsHandler(statisticsService, logger),
		ReportHandler:     handler.NewReportHandler(reportService, logger),
		PromotionHandler:  handler.NewPromotionHandler(promotionService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
