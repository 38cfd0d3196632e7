package main

import (
	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"github.com/Adeel3330/agile-next-sub002/internal/handlers"
	"github.com/Adeel3330/agile-next-sub002/internal/metrics"
	"github.com/Adeel3330/agile-next-sub002/internal/middleware"
	"github.com/Adeel3330/agile-next-sub002/internal/models"
	"github.com/Adeel3330/agile-next-sub002/internal/schema"
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/internal/storage"
	"github.com/Adeel3330/agile-next-sub002/internal/utils"
	"github.com/Adeel3330/agile-next-sub002/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	db         *gorm.DB
	taskQueue  services.TaskQueue
	worker     *services.Worker
	systemLogs *services.SystemLogService

	formLimiter  *middleware.RateLimiter
	loginLimiter *middleware.RateLimiter

	health     *handlers.HealthHandler
	auth       *handlers.AuthHandler
	settings   *handlers.SettingsHandler
	pages      *handlers.PageHandler
	blogs      *handlers.ResourceHandler[models.Blog]
	services   *handlers.ResourceHandler[models.Service]
	careers    *handlers.ResourceHandler[models.Career]
	team       *handlers.ResourceHandler[models.TeamMember]
	sliders    *handlers.ResourceHandler[models.Slider]
	media      *handlers.MediaHandler
	contacts   *handlers.ResourceHandler[models.Contact]
	bookings   *handlers.ResourceHandler[models.Booking]
	resumes    *handlers.ResourceHandler[models.Resume]
	leads      *handlers.ResourceHandler[models.Lead]
	payouts    *handlers.ResourceHandler[models.Payout]
	affiliates *handlers.AffiliateHandler
	public     *handlers.PublicHandler
	forms      *handlers.FormHandler
	dashboard  *handlers.DashboardHandler
	systemLog  *handlers.SystemLogHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)
	schema.RegisterBindingValidations()

	if err := models.InitDB(&cfg.Database, cfg.Server.Mode == "debug"); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	db := models.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := metrics.RegisterDB(sqlDB); err != nil {
			logger.Warn().Err(err).Msg("Failed to register database metrics")
		}
	}

	store, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL, cfg.Upload.MaxBytes())
	if err != nil {
		logger.Fatalf("Failed to prepare upload directory: %v", err)
	}

	settingsService := services.NewSettingsService(db, services.NewTTLSettingsCache(cfg.Cache.SettingsTTL()))

	// Notifications go through Redis when enabled, otherwise they run in-process
	taskQueue := services.NewTaskQueue(&cfg.Redis)
	notifier := services.NewNotificationService(settingsService, services.NewEmailService(cfg.SMTP), taskQueue)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notifier.Process)
	}

	var worker *services.Worker
	if taskQueue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notifier.Process)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start worker")
			}
		}
	}

	systemLogs := services.NewSystemLogService(db, cfg.Log.RetentionDays)
	if err := systemLogs.StartScheduler(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start log cleanup scheduler")
	}

	authService := services.NewAuthService(db, &cfg.JWT)
	if err := authService.CreateAdminIfNotExists(cfg.Admin); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	pageService := services.NewPageService(db)
	blogService := services.NewBlogService(db)
	serviceService := services.NewServiceService(db)
	careerService := services.NewCareerService(db)
	teamService := services.NewTeamService(db)
	sliderService := services.NewSliderService(db)
	mediaService := services.NewMediaService(db, store, cfg.Upload)

	contactService := services.NewContactService(db, notifier)
	bookingService := services.NewBookingService(db, notifier)
	resumeService := services.NewResumeService(db, mediaService, notifier)
	affiliateService := services.NewAffiliateService(db, cfg.Affiliate.DefaultCommissionRate, notifier)
	leadService := services.NewLeadService(db, affiliateService, notifier)

	// these arrive through the public forms only
	contacts := handlers.NewResourceHandler[models.Contact](contactService, "contact", "contacts")
	contacts.NoCreate = true
	bookings := handlers.NewResourceHandler[models.Booking](bookingService, "booking", "bookings")
	bookings.NoCreate = true
	resumes := handlers.NewResourceHandler[models.Resume](resumeService, "resume", "resumes")
	resumes.NoCreate = true

	return &appServices{
		db:         db,
		taskQueue:  taskQueue,
		worker:     worker,
		systemLogs: systemLogs,

		formLimiter:  middleware.NewRateLimiter("forms", cfg.RateLimit.FormsRPS, cfg.RateLimit.FormsBurst),
		loginLimiter: middleware.NewRateLimiter("login", cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst),

		health:     handlers.NewHealthHandler(db, taskQueue),
		auth:       handlers.NewAuthHandler(authService),
		settings:   handlers.NewSettingsHandler(settingsService),
		pages:      handlers.NewPageHandler(pageService),
		blogs:      handlers.NewResourceHandler[models.Blog](blogService, "blog", "blogs"),
		services:   handlers.NewResourceHandler[models.Service](serviceService, "service", "services"),
		careers:    handlers.NewResourceHandler[models.Career](careerService, "career", "careers"),
		team:       handlers.NewResourceHandler[models.TeamMember](teamService, "teamMember", "team"),
		sliders:    handlers.NewResourceHandler[models.Slider](sliderService, "slider", "sliders"),
		media:      handlers.NewMediaHandler(mediaService),
		contacts:   contacts,
		bookings:   bookings,
		resumes:    resumes,
		leads:      handlers.NewResourceHandler[models.Lead](leadService, "lead", "leads"),
		payouts:    handlers.NewResourceHandler[models.Payout](services.NewPayoutService(db), "payout", "payouts"),
		affiliates: handlers.NewAffiliateHandler(affiliateService),
		public: handlers.NewPublicHandler(pageService, blogService, serviceService,
			careerService, teamService, sliderService),
		forms:     handlers.NewFormHandler(contactService, bookingService, resumeService, leadService, affiliateService),
		dashboard: handlers.NewDashboardHandler(services.NewDashboardService(db)),
		systemLog: handlers.NewSystemLogHandler(systemLogs),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.systemLogs.StopScheduler()
	s.formLimiter.Stop()
	s.loginLimiter.Stop()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		if err := s.taskQueue.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close task queue")
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
