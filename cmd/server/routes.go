package main

import (
	"github.com/Adeel3330/agile-next-sub002/internal/config"
	"github.com/Adeel3330/agile-next-sub002/internal/metrics"
	"github.com/Adeel3330/agile-next-sub002/internal/middleware"
	"github.com/Adeel3330/agile-next-sub002/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.Server.AllowOrigins))
	r.MaxMultipartMemory = cfg.Upload.MaxBytes()

	r.GET("/health", svc.health.CheckHealth)
	r.GET("/metrics", metrics.Handler())
	r.Static("/uploads", cfg.Upload.Dir)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.loginLimiter.Middleware(), svc.auth.Login)
			auth.POST("/refresh", svc.loginLimiter.Middleware(), svc.auth.Refresh)
			auth.POST("/logout", svc.auth.Logout)
		}

		// Public site content
		api.GET("/settings", svc.settings.Get)
		api.GET("/pages/:slug", svc.public.GetPage)
		api.GET("/blogs", svc.public.ListBlogs)
		api.GET("/blogs/:slug", svc.public.GetBlog)
		api.GET("/services", svc.public.ListServices)
		api.GET("/services/:slug", svc.public.GetService)
		api.GET("/careers", svc.public.ListCareers)
		api.GET("/careers/:slug", svc.public.GetCareer)
		api.GET("/team", svc.public.ListTeam)
		api.GET("/sliders", svc.public.ListSliders)
		api.GET("/affiliates/validate/:code", svc.forms.ValidateCode)

		// Public intake forms
		forms := api.Group("", svc.formLimiter.Middleware())
		{
			forms.POST("/contact", svc.forms.SubmitContact)
			forms.POST("/bookings", svc.forms.SubmitBooking)
			forms.POST("/resumes", svc.forms.SubmitResume)
			forms.POST("/leads", svc.forms.SubmitLead)
			forms.POST("/affiliates/apply", svc.forms.ApplyAffiliate)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", svc.auth.Me)
			protected.POST("/auth/change-password", svc.auth.ChangePassword)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AuditLog(svc.systemLogs))
		{
			admin.GET("/dashboard/stats", svc.dashboard.GetStats)

			admin.GET("/settings", svc.settings.Get)
			admin.PUT("/settings", svc.settings.Update)

			svc.pages.Register(admin.Group("/pages"))
			svc.blogs.Register(admin.Group("/blogs"))
			svc.services.Register(admin.Group("/services"))
			svc.careers.Register(admin.Group("/careers"))
			svc.team.Register(admin.Group("/team"))
			svc.sliders.Register(admin.Group("/sliders"))
			svc.media.Register(admin.Group("/media"))

			svc.contacts.Register(admin.Group("/contacts"))
			svc.bookings.Register(admin.Group("/bookings"))
			svc.resumes.Register(admin.Group("/resumes"))
			svc.leads.Register(admin.Group("/leads"))

			svc.affiliates.Register(admin.Group("/affiliates"))
			svc.affiliates.RegisterApplications(admin.Group("/affiliate-applications"))
			svc.payouts.Register(admin.Group("/payouts"))

			admin.GET("/system-logs", svc.systemLog.List)
			admin.GET("/system-logs/modules", svc.systemLog.GetModules)
		}
	}
}
