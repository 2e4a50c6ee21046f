package routes

import (
	"clinic-app-server/internal/config"
	"clinic-app-server/internal/handlers"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	grid := scheduling.SlotGrid{
		OpenHour:    cfg.Clinic.OpenHour,
		CloseHour:   cfg.Clinic.CloseHour,
		SlotMinutes: cfg.Clinic.SlotMinutes,
	}
	schedulingService := scheduling.NewService(
		store.NewGormAppointmentStore(db),
		store.NewGormExceptionStore(db),
		store.NewGormDirectory(db),
		grid,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(schedulingService, cfg)
	availabilityHandler := handlers.NewAvailabilityHandler(schedulingService, cfg)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Directory listing for booking screens - all authenticated users
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			// Patient directory - doctors and staff only (checked in handler)
			userRoutes.GET("/patients", userHandler.GetPatients)

			// Admin-only routes
			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin)) // Only Admins
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Appointment lifecycle routes
		appointmentRoutes := private.Group("/appointments")
		{
			// Patients book for themselves, staff book on a patient's behalf
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleDoctor, models.RoleSecretary, models.RoleManager, models.RoleAdmin), appointmentHandler.CreateAppointment)

			// Role-scoped listing (logic inside handler differentiates by role)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)

			// Specific appointment access (authorization inside handler)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			// Lifecycle transitions (authorization inside handler)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/confirm", appointmentHandler.ConfirmAppointment)
			appointmentRoutes.PATCH("/:id/check-in", appointmentHandler.CheckInAppointment)
			appointmentRoutes.PATCH("/:id/complete", appointmentHandler.CompleteAppointment)

			// Administrative hard delete, not a lifecycle transition
			appointmentRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), appointmentHandler.DeleteAppointment)
		}

		// Doctor availability routes
		availabilityRoutes := private.Group("/availability")
		{
			// Open slots for a doctor on a date - all authenticated users
			availabilityRoutes.GET("/:doctorId/slots", availabilityHandler.GetOpenSlots)

			// Exception management - the doctor themself or staff (checked in handler)
			availabilityRoutes.GET("/:doctorId/exceptions", availabilityHandler.GetExceptions)
			availabilityRoutes.POST("/exceptions", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleSecretary, models.RoleManager, models.RoleAdmin), availabilityHandler.CreateException)
			availabilityRoutes.DELETE("/exceptions/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleSecretary, models.RoleManager, models.RoleAdmin), availabilityHandler.DeleteException)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
