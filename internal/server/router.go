// Package server assembles the sandbox backend: the gin engine, its
// middleware and the routes the client consumes.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutorhub/api/swagger"
	"github.com/noah-isme/tutorhub/internal/handler"
	"github.com/noah-isme/tutorhub/internal/middleware"
	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/sandbox"
	"github.com/noah-isme/tutorhub/internal/service"
	"github.com/noah-isme/tutorhub/pkg/clock"
	"github.com/noah-isme/tutorhub/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutorhub/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutorhub/pkg/middleware/requestid"
)

// Store is everything the sandbox reads and writes. Both
// repository.MemoryStore and repository.PostgresStore satisfy it.
type Store interface {
	FindByLogin(ctx context.Context, nameOrEmail string) (*models.Account, error)
	MarkLoggedIn(ctx context.Context, id int64, ts time.Time) error
	FindStudent(ctx context.Context, id int64) (*models.Profile, error)
	FindTeacher(ctx context.Context, id int64) (*models.Profile, error)
	UpdateAttendanceStatus(ctx context.Context, sessionID int64, kind models.SubjectKind, subjectID int64, status models.AttendanceStatus) (*models.AttendanceRecord, error)
	UpdateConfirmationStatus(ctx context.Context, sessionID, studentID int64, status models.ConfirmationStatus) (*models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error)
	Roster(ctx context.Context, sessionID int64) ([]models.RosterEntry, error)
	ListByDate(ctx context.Context, date string) ([]models.ClassSession, error)
	SessionDate(ctx context.Context, sessionID int64) (string, error)
}

// Options configures New.
type Options struct {
	Auth           sandbox.AuthConfig
	Clock          clock.Clock
	Location       *time.Location
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	AllowedOrigins []string
	EnableDocs     bool
}

// New wires services, handlers and middleware into a gin engine.
func New(store Store, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	validate := validator.New()

	authSvc := sandbox.NewAuthService(store, opts.Clock, validate, opts.Logger, opts.Auth)
	attendanceSvc := sandbox.NewAttendanceService(store, store, opts.Clock, opts.Location, validate, opts.Logger, opts.Metrics)
	directorySvc := sandbox.NewDirectoryService(store, store, validate, opts.Logger)

	authHandler := handler.NewAuthHandler(authSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	directoryHandler := handler.NewDirectoryHandler(directorySvc)
	metricsHandler := handler.NewMetricsHandler(opts.Metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger, "/health", "/metrics"))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/login", authHandler.Login)

	admin := string(models.RoleAdmin)
	teacher := string(models.RoleTeacher)
	student := string(models.RoleStudent)

	authed := r.Group("/")
	authed.Use(middleware.JWT(authSvc))
	authed.GET("/student/:id", middleware.RBAC(admin, teacher, middleware.SelfStudent), directoryHandler.Student)
	authed.GET("/student/:id/attendances", middleware.RBAC(admin, middleware.SelfStudent), attendanceHandler.StudentAttendances)
	authed.GET("/teacher/:id", middleware.RBAC(admin, middleware.SelfTeacher), directoryHandler.Teacher)
	authed.POST("/attendance/change-attendance-status", middleware.RBAC(admin, teacher), attendanceHandler.ChangeAttendanceStatus)
	authed.POST("/attendance/change-confirmation-status", middleware.RBAC(admin, student), attendanceHandler.ChangeConfirmationStatus)
	authed.POST("/classSessions/filter", middleware.RBAC(admin, teacher), directoryHandler.FilterSessions)
	authed.GET("/classSession/:id/attendances", middleware.RBAC(admin, teacher), attendanceHandler.Roster)

	return r
}
