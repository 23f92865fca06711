package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/field-scheduler/internal/audit"
	"github.com/BruksfildServices01/field-scheduler/internal/config"
	"github.com/BruksfildServices01/field-scheduler/internal/domain/route"
	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/events"
	"github.com/BruksfildServices01/field-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/field-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/field-scheduler/internal/middleware"
	ucOptimization "github.com/BruksfildServices01/field-scheduler/internal/usecase/optimization"
	ucScheduling "github.com/BruksfildServices01/field-scheduler/internal/usecase/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/validators"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Audit    *audit.Dispatcher
	Locker   domain.ResourceLocker
	Lookup   route.CoordinateLookup
	Archiver ucOptimization.Archiver
	Events   events.Broker
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	if err := validators.Register(); err != nil {
		return err
	}

	cfg := d.Config
	loc := cfg.Location()

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.CORSMiddleware(cfg.Server.AllowOrigins),
	)

	// ======================================================
	// INFRA
	// ======================================================
	policyRepo := infraRepo.NewPolicyGormRepository(d.DB)
	availabilityRepo := infraRepo.NewAvailabilityGormRepository(d.DB)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	runRepo := infraRepo.NewRunGormRepository(d.DB)

	resolver := domain.NewResolver(availabilityRepo, loc)
	finder := domain.NewSlotFinder(resolver)
	optimizer := route.NewOptimizer(d.Lookup, d.Log)

	// ======================================================
	// USE CASES: SCHEDULING
	// ======================================================
	defaultPolicyUC := ucScheduling.NewGetDefaultPolicy(policyRepo, d.Log)

	listPoliciesUC := ucScheduling.NewListPolicies(policyRepo)
	upsertPolicyUC := ucScheduling.NewUpsertPolicy(policyRepo, d.Audit)
	dueDateUC := ucScheduling.NewCalculateDueDate(availabilityRepo)
	findSlotsUC := ucScheduling.NewFindAvailableSlots(finder, defaultPolicyUC)
	availabilityUC := ucScheduling.NewCheckResourceAvailability(resolver, defaultPolicyUC)
	statusCountsUC := ucScheduling.NewAppointmentStatusCounts(appointmentRepo)
	calendarUC := ucScheduling.NewExportResourceCalendar(availabilityRepo)
	getHoursUC := ucScheduling.NewGetWorkingHours(availabilityRepo)
	replaceHoursUC := ucScheduling.NewReplaceWorkingHours(availabilityRepo, d.Audit)
	updateStatusUC := ucScheduling.NewUpdateAppointmentStatus(appointmentRepo, d.Audit)

	autoScheduleUC := ucScheduling.NewAutoScheduleAppointment(
		appointmentRepo,
		availabilityRepo,
		finder,
		defaultPolicyUC,
		d.Locker,
		d.Audit,
		d.Log,
	)

	// ======================================================
	// USE CASES: OPTIMIZATION
	// ======================================================
	runUC := ucOptimization.NewRunOptimization(
		runRepo,
		optimizer,
		d.Archiver,
		d.Audit,
		d.Log,
		loc,
		cfg.Scheduling.OptimizerWorkers,
	)
	approveUC := ucOptimization.NewApproveOptimization(runRepo, d.Archiver, d.Audit, d.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	schedulingHandler := handlers.NewSchedulingHandler(handlers.SchedulingUseCases{
		DefaultPolicy: defaultPolicyUC,
		ListPolicies:  listPoliciesUC,
		UpsertPolicy:  upsertPolicyUC,
		DueDate:       dueDateUC,
		FindSlots:     findSlotsUC,
		Availability:  availabilityUC,
		AutoSchedule:  autoScheduleUC,
		UpdateStatus:  updateStatusUC,
		StatusCounts:  statusCountsUC,
		Calendar:      calendarUC,
	}, loc)

	workingHoursHandler := handlers.NewWorkingHoursHandler(getHoursUC, replaceHoursUC)

	optimizationHandler := handlers.NewOptimizationHandler(handlers.OptimizationUseCases{
		Run:     runUC,
		Approve: approveUC,
		Get:     ucOptimization.NewGetRun(runRepo),
		List:    ucOptimization.NewListRuns(runRepo),
		Report:  ucOptimization.NewExportRunReport(runRepo, loc),
	}, loc)

	auditLogsHandler := handlers.NewAuditLogsHandler(audit.New(d.DB))

	// ======================================================
	// API (JWT)
	// ======================================================
	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	api := r.Group("/api/v1")
	api.Use(
		middleware.RateLimit(limiter),
		middleware.AuthMiddleware(cfg.Auth.JWTSecret),
	)

	sched := api.Group("/scheduling")
	{
		sched.GET("/policies", schedulingHandler.ListPolicies)
		sched.GET("/policies/default", schedulingHandler.DefaultPolicy)
		sched.POST("/policies", schedulingHandler.CreatePolicy)
		sched.PUT("/policies/:id", schedulingHandler.UpdatePolicy)

		sched.POST("/due-date", schedulingHandler.DueDate)
		sched.POST("/slots", schedulingHandler.FindSlots)
	}

	resources := api.Group("/resources/:id")
	{
		resources.GET("/availability", schedulingHandler.Availability)
		resources.GET("/calendar.ics", schedulingHandler.Calendar)
		resources.GET("/working-hours", workingHoursHandler.Get)
		resources.PUT("/working-hours", workingHoursHandler.Update)
	}

	appointments := api.Group("/appointments")
	{
		appointments.GET("/stats", schedulingHandler.StatusCounts)
		appointments.POST("/:id/auto-schedule", schedulingHandler.AutoSchedule)
		appointments.POST("/:id/status", schedulingHandler.UpdateStatus)
	}

	opt := api.Group("/optimization/runs")
	{
		opt.POST("", optimizationHandler.Run)
		opt.GET("", optimizationHandler.List)
		opt.GET("/:id", optimizationHandler.Get)
		opt.POST("/:id/approve", optimizationHandler.Approve)
		opt.GET("/:id/report.xlsx", optimizationHandler.Report)
	}

	api.GET("/audit-logs", auditLogsHandler.List)

	if d.Events != nil {
		api.GET("/events/ws", handlers.NewEventsHandler(d.Events, d.Log).Stream)
	}

	return nil
}
