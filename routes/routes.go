package routes

import (
	handlers "yelocar/internal/handlers/shared"
	"yelocar/internal/middleware"
	"yelocar/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the API router serves.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	Catalog      *handlers.CatalogHandler
	Bookings     *handlers.BookingHandler
	Interactions *handlers.InteractionHandler
	Analytics    *handlers.AnalyticsHandler
	Staff        *handlers.StaffHandler
	Showrooms    *handlers.ShowroomHandler
	Contacts     *handlers.ContactHandler
	Audit        *handlers.AuditHandler
	Access       *handlers.AccessHandler
	Health       *handlers.HealthHandler

	// Live is optional; without it the admin live feed is not mounted.
	Live     gin.HandlerFunc
	LivePath string
}

// Guards are the middleware the route groups depend on.
type Guards struct {
	Sessions middleware.SessionValidator
	Access   services.AccessService
}

// SetupRoutes mounts /health and the /api/v1 tree on router.
func SetupRoutes(router *gin.Engine, h *Handlers, g *Guards) {
	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.OptionalAuth(g.Sessions))

	setupPublicRoutes(v1, h)
	setupBuyerRoutes(v1, h, g)
	setupAdminRoutes(v1, h, g)
}

func setupPublicRoutes(r *gin.RouterGroup, h *Handlers) {
	r.GET("/access", h.Access.ResolveAccess)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.Auth.SignUp)
		auth.POST("/session", h.Auth.CreateSession)
	}

	cars := r.Group("/cars")
	{
		cars.GET("", h.Catalog.ListVehicles)
		cars.GET("/:id", h.Catalog.GetVehicle)
		cars.GET("/:id/variants", h.Bookings.Variants)
	}

	showrooms := r.Group("/showrooms")
	{
		showrooms.GET("", h.Showrooms.ListShowrooms)
		showrooms.GET("/:id", h.Showrooms.GetShowroom)
	}

	r.POST("/interactions", h.Interactions.RecordInteraction)
	r.POST("/contact", h.Contacts.SubmitContact)
}

func setupBuyerRoutes(r *gin.RouterGroup, h *Handlers, g *Guards) {
	me := r.Group("/me")
	me.Use(middleware.AuthRequired(g.Sessions), middleware.AreaRequired(g.Access, services.AreaBuyer))
	{
		me.GET("/profile", h.Auth.GetProfile)
		me.PUT("/profile", h.Auth.UpdateProfile)
		me.DELETE("", h.Auth.DeleteAccount)

		me.GET("/bookings", h.Bookings.ListMyBookings)
		me.POST("/bookings", h.Bookings.CreateBooking)
		me.GET("/bookings/:id", h.Bookings.GetBooking)
		me.DELETE("/bookings/:id", h.Bookings.CancelBooking)
	}
}

func setupAdminRoutes(r *gin.RouterGroup, h *Handlers, g *Guards) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(g.Sessions), middleware.AreaRequired(g.Access, services.AreaAdmin))

	cars := admin.Group("/cars")
	{
		cars.GET("", h.Catalog.ListAllVehicles)
		cars.POST("", h.Catalog.CreateVehicle)
		cars.PUT("/:id", h.Catalog.UpdateVehicle)
		cars.DELETE("/:id", h.Catalog.DeleteVehicle)
		cars.PATCH("/:id/status", h.Catalog.ToggleVehicleStatus)
		cars.POST("/:id/image", h.Catalog.UploadVehicleImage)
	}

	bookings := admin.Group("/bookings")
	{
		bookings.GET("", h.Bookings.ListAllBookings)
		bookings.DELETE("/:user_id/:id", h.Bookings.DeleteBooking)
	}

	users := admin.Group("/users")
	{
		users.GET("", h.Users.ListUsers)
		users.PATCH("/:id/role", h.Users.UpdateUserRole)
	}

	staff := admin.Group("/staff")
	{
		staff.GET("", h.Staff.ListStaff)
		staff.GET("/roles", h.Staff.Roles)
		staff.GET("/:id", h.Staff.GetStaff)
		staff.POST("", h.Staff.CreateStaff)
		staff.PUT("/:id", h.Staff.UpdateStaff)
		staff.DELETE("/:id", h.Staff.DeleteStaff)
	}

	showrooms := admin.Group("/showrooms")
	{
		showrooms.GET("", h.Showrooms.ListAllShowrooms)
		showrooms.POST("", h.Showrooms.CreateShowroom)
		showrooms.PUT("/:id", h.Showrooms.UpdateShowroom)
		showrooms.PATCH("/:id/status", h.Showrooms.ToggleShowroomStatus)
		showrooms.DELETE("/:id", h.Showrooms.DeleteShowroom)
	}

	analytics := admin.Group("/analytics")
	{
		analytics.GET("/cars", h.Analytics.CarAnalytics)
		analytics.GET("/bookings", h.Analytics.BookingAnalytics)
		analytics.GET("/overview", h.Analytics.Overview)
	}

	admin.GET("/contacts", h.Contacts.ListContacts)
	admin.GET("/interactions", h.Interactions.ListInteractions)
	admin.GET("/audit", h.Audit.ListAuditLogs)

	if h.Live != nil {
		path := h.LivePath
		if path == "" {
			path = "/live"
		}
		admin.GET(path, h.Live)
	}
}
