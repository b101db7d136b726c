package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/config"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/export"
	"github.com/BruksfildServices01/salon-manager/internal/handlers"
	"github.com/BruksfildServices01/salon-manager/internal/metrics"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/salon-manager/internal/usecase/appointment"
	ucReport "github.com/BruksfildServices01/salon-manager/internal/usecase/report"
	"github.com/BruksfildServices01/salon-manager/internal/validators"
)

// Deps are the process-wide collaborators built in main. DB, Redis and
// Uploader are optional.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Metrics  *metrics.Collector
	Audit    *audit.Dispatcher
	Repo     domain.Repository
	DB       *gorm.DB
	Redis    *redis.Client
	Uploader export.Uploader
	Now      func() time.Time
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.Recovery(d.Log),
		middleware.RequestID(),
		middleware.AccessLog(d.Log),
		middleware.Metrics(d.Metrics),
		middleware.CORSMiddleware(cfg.CORS.AllowedOrigins),
	)

	// ======================================================
	// HEALTH / METRICS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.DB, d.Redis, cfg.Database.Store)
	r.GET("/health", healthHandler.Live)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(newLimiter(d), d.Log, d.Metrics.RateLimited.Inc))
	}

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	window, err := domain.NewWindow(cfg.Schedule.WorkStart, cfg.Schedule.WorkEnd, cfg.Schedule.StepMinutes)
	if err != nil {
		return err
	}

	appointmentHandler := handlers.NewAppointmentHandler(handlers.AppointmentUseCases{
		Availability: ucAppointment.NewGetAvailability(d.Repo, window),
		Create:       ucAppointment.NewCreateAppointment(d.Repo, d.Audit),
		Reschedule:   ucAppointment.NewRescheduleAppointment(d.Repo, d.Audit),
		Transition:   ucAppointment.NewTransitionAppointment(d.Repo, d.Audit, d.Now),
		List:         ucAppointment.NewListAppointments(d.Repo),
	}, d.Metrics)

	// ======================================================
	// SCHEDULING
	// ======================================================
	scheduling := api.Group("")
	if cfg.JWT.Required {
		scheduling.Use(middleware.AuthMiddleware(cfg.JWT))
	} else {
		scheduling.Use(middleware.OptionalAuth(cfg.JWT))
	}
	{
		scheduling.GET("/appointments/available-slots", appointmentHandler.AvailableSlots)
		scheduling.GET("/v2/appointments/available-slots", appointmentHandler.AvailableSlotsV2)

		scheduling.GET("/appointments", appointmentHandler.List)
		scheduling.POST("/appointments", appointmentHandler.Create)
		scheduling.GET("/appointments/:id", appointmentHandler.Get)
		scheduling.PUT("/appointments/:id", appointmentHandler.Reschedule)
		scheduling.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
		scheduling.POST("/appointments/:id/confirm", appointmentHandler.TransitionTo(domain.StatusConfirmed))
		scheduling.POST("/appointments/:id/complete", appointmentHandler.TransitionTo(domain.StatusCompleted))
		scheduling.POST("/appointments/:id/cancel", appointmentHandler.TransitionTo(domain.StatusCancelled))
		scheduling.POST("/appointments/:id/no-show", appointmentHandler.TransitionTo(domain.StatusNoShow))
	}

	// The remaining surface needs the relational store.
	if d.DB == nil {
		d.Log.Info("memory store: admin routes disabled")
		return nil
	}

	// ======================================================
	// HANDLERS: ADMIN
	// ======================================================
	var emails *validators.EmailDomainChecker
	if cfg.App.VerifyEmailDomains {
		emails = validators.NewEmailDomainChecker(nil)
	}

	authHandler := handlers.NewAuthHandler(d.DB, cfg.JWT, d.Audit, d.Now)
	clientHandler := handlers.NewClientHandler(d.DB, d.Audit, emails)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit)
	professionalHandler := handlers.NewProfessionalHandler(d.DB, d.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Audit)
	dashboardHandler := handlers.NewDashboardHandler(d.DB, d.Now)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	api.POST("/auth/login", authHandler.Login)

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(cfg.JWT))
	{
		admin.GET("/auth/me", authHandler.Me)
		admin.PUT("/auth/password", authHandler.ChangePassword)

		admin.GET("/clients", clientHandler.List)
		admin.POST("/clients", clientHandler.Create)
		admin.GET("/clients/:id", clientHandler.Get)
		admin.PUT("/clients/:id", clientHandler.Update)
		admin.DELETE("/clients/:id", clientHandler.Delete)

		admin.GET("/services", serviceHandler.List)
		admin.POST("/services", serviceHandler.Create)
		admin.GET("/services/:id", serviceHandler.Get)
		admin.PUT("/services/:id", serviceHandler.Update)
		admin.DELETE("/services/:id", serviceHandler.Delete)

		admin.GET("/professionals", professionalHandler.List)
		admin.POST("/professionals", professionalHandler.Create)
		admin.GET("/professionals/:id", professionalHandler.Get)
		admin.PUT("/professionals/:id", professionalHandler.Update)
		admin.DELETE("/professionals/:id", professionalHandler.Delete)
		admin.GET("/professionals/:id/working-hours", workingHoursHandler.Get)
		admin.PUT("/professionals/:id/working-hours", workingHoursHandler.Update)

		admin.GET("/dashboard/stats", dashboardHandler.Summary)
		admin.GET("/audit-logs", auditLogsHandler.List)

		if d.Uploader != nil {
			exportUC := ucReport.NewExportAppointments(d.Repo, d.Uploader, cfg.S3.Prefix, d.Now)
			reportHandler := handlers.NewReportHandler(exportUC, d.Metrics)
			admin.POST("/reports/appointments/export", reportHandler.ExportAppointments)
		}
	}

	return nil
}

func newLimiter(d Deps) middleware.Limiter {
	rl := d.Config.RateLimit
	if d.Redis != nil {
		return middleware.NewRedisLimiter(d.Redis, rl.RequestsPerMinute, time.Minute, d.Config.App.Name+":ratelimit")
	}
	return middleware.NewMemoryLimiter(rl.RequestsPerMinute, rl.Burst, rl.TTL, d.Now)
}
