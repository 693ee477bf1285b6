package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"practice-booking-server/internal/config"
	"practice-booking-server/internal/handlers"
	"practice-booking-server/internal/middleware"
	"practice-booking-server/internal/models"
	"practice-booking-server/internal/scheduling"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, scheduler *scheduling.Service, cfg *config.Config) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, scheduler)
	availabilityHandler := handlers.NewAvailabilityHandler(db, scheduler)
	typeHandler := handlers.NewAppointmentTypeHandler(db)
	proposalHandler := handlers.NewProposalHandler(db, scheduler)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Booking form data: offered visit kinds and free slots.
		public.GET("/appointment-types", typeHandler.ListActive)
		public.GET("/slots", availabilityHandler.GetSlots)

		// Token-authenticated proposal response (capability URL from email).
		proposalRoutes := public.Group("/proposals")
		{
			proposalRoutes.GET("/:token", proposalHandler.GetProposal)
			proposalRoutes.POST("/:token/respond", proposalHandler.Respond)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management (admin), plus patient lookup for staff.
		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/:id", middleware.RoleAuthMiddleware(models.RoleStaff, models.RoleAdmin), userHandler.GetUserByID)

			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			// Patients request for themselves; staff may request on behalf.
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			// Scheduling decisions are staff-only.
			staffOnly := appointmentRoutes.Group("")
			staffOnly.Use(middleware.RoleAuthMiddleware(models.RoleStaff, models.RoleAdmin))
			{
				staffOnly.PATCH("/:id/book", appointmentHandler.BookDirect)
				staffOnly.POST("/:id/proposal", appointmentHandler.SendProposal)
				staffOnly.POST("/:id/alternative", appointmentHandler.SuggestAlternative)
				staffOnly.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
				staffOnly.PATCH("/:id/complete", appointmentHandler.CompleteAppointment)
			}
		}

		// Reminder sweep can also be triggered by hand.
		private.POST("/reminders/run",
			middleware.RoleAuthMiddleware(models.RoleStaff, models.RoleAdmin),
			appointmentHandler.RunReminderSweep)

		// Master data (admin)
		adminData := private.Group("")
		adminData.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminData.GET("/appointment-types/all", typeHandler.ListAll)
			adminData.POST("/appointment-types", typeHandler.Create)
			adminData.PATCH("/appointment-types/:id/active", typeHandler.SetActive)

			adminData.GET("/availability-windows", availabilityHandler.ListWindows)
			adminData.POST("/availability-windows", availabilityHandler.CreateWindow)
			adminData.PUT("/availability-windows/:id", availabilityHandler.UpdateWindow)
			adminData.DELETE("/availability-windows/:id", availabilityHandler.DeleteWindow)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
