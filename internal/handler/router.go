package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ridersclub/backend/internal/config"
	"ridersclub/backend/internal/handler/middleware"
	"ridersclub/backend/internal/metrics"
)

type Handlers struct {
	Auth         *AuthHandler
	Zones        *ZoneHandler
	Applications *ApplicationHandler
	Riders       *RiderHandler
	Events       *EventHandler
	Posts        *PostHandler
	Benefits     *BenefitHandler
	Notices      *NoticeHandler
	Users        *UserHandler
	Health       *HealthHandler
}

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authenticator middleware.Authenticator,
	h Handlers,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.GET("/healthz", h.Health.Health)
	if cfg.Media.Root != "" {
		r.Static(cfg.Media.URLPrefix, cfg.Media.Root)
	}

	required := middleware.RequireUser()
	staff := middleware.StaffOnly()

	api := r.Group("/api")
	api.Use(middleware.JWTAuth(authenticator))

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/user", required, h.Auth.Profile)
		auth.POST("/change-password", required, h.Auth.ChangePassword)
		auth.PUT("/update-profile", required, h.Auth.UpdateProfile)
		auth.PATCH("/update-profile", required, h.Auth.UpdateProfile)
	}

	zones := api.Group("/zones")
	{
		zones.GET("", h.Zones.List)
		zones.GET("/:id", h.Zones.Get)
		zones.POST("", staff, h.Zones.Create)
		zones.PUT("/:id", staff, h.Zones.Update)
		zones.PATCH("/:id", staff, h.Zones.Update)
		zones.DELETE("/:id", staff, h.Zones.Delete)
	}

	apps := api.Group("/membership-applications")
	{
		apps.GET("", h.Applications.List)
		apps.POST("", h.Applications.Submit)
		apps.GET("/:id", h.Applications.Get)
		apps.PUT("/:id", staff, h.Applications.Update)
		apps.PATCH("/:id", staff, h.Applications.Update)
		apps.DELETE("/:id", staff, h.Applications.Delete)
		apps.POST("/:id/approve", staff, h.Applications.Approve)
		apps.POST("/:id/reject", staff, h.Applications.Reject)
	}

	riders := api.Group("/riders")
	{
		riders.GET("", h.Riders.List)
		riders.GET("/featured", h.Riders.Featured)
		riders.GET("/:id", h.Riders.Get)
		riders.PUT("/:id", required, h.Riders.Update)
		riders.PATCH("/:id", required, h.Riders.Update)
		riders.DELETE("/:id", staff, h.Riders.Delete)
	}

	events := api.Group("/events")
	{
		events.GET("", h.Events.List)
		events.GET("/upcoming", h.Events.Upcoming)
		events.GET("/past", h.Events.Past)
		events.GET("/:id", h.Events.Get)
		events.POST("", required, h.Events.Create)
		events.PUT("/:id", required, h.Events.Update)
		events.PATCH("/:id", required, h.Events.Update)
		events.DELETE("/:id", required, h.Events.Delete)
		events.POST("/:id/join", required, h.Events.Join)
		events.POST("/:id/leave", required, h.Events.Leave)
		events.GET("/:id/photos", h.Events.ListPhotos)
		events.POST("/:id/photos", required, h.Events.AddPhoto)
		events.DELETE("/:id/photos/:photoID", required, h.Events.DeletePhoto)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", h.Posts.List)
		posts.GET("/:id", h.Posts.Get)
		posts.POST("", required, h.Posts.Create)
		posts.PUT("/:id", required, h.Posts.Update)
		posts.PATCH("/:id", required, h.Posts.Update)
		posts.DELETE("/:id", required, h.Posts.Delete)
		posts.POST("/:id/like", required, h.Posts.ToggleLike)
	}

	categories := api.Group("/benefit-categories")
	{
		categories.GET("", h.Benefits.ListCategories)
		categories.GET("/:id", h.Benefits.GetCategory)
		categories.POST("", staff, h.Benefits.CreateCategory)
		categories.PUT("/:id", staff, h.Benefits.UpdateCategory)
		categories.PATCH("/:id", staff, h.Benefits.UpdateCategory)
		categories.DELETE("/:id", staff, h.Benefits.DeleteCategory)
	}

	benefits := api.Group("/benefits")
	{
		benefits.GET("", h.Benefits.List)
		benefits.GET("/featured", h.Benefits.Featured)
		benefits.GET("/by_category", h.Benefits.ByCategory)
		benefits.GET("/:id", h.Benefits.Get)
		benefits.POST("", staff, h.Benefits.Create)
		benefits.PUT("/:id", staff, h.Benefits.Update)
		benefits.PATCH("/:id", staff, h.Benefits.Update)
		benefits.DELETE("/:id", staff, h.Benefits.Delete)
		benefits.POST("/:id/use_benefit", required, h.Benefits.Use)
	}

	usage := api.Group("/benefit-usage", required)
	{
		usage.GET("", h.Benefits.ListUsages)
		usage.GET("/:id", h.Benefits.GetUsage)
	}

	users := api.Group("/users", staff)
	{
		users.GET("/:id", h.Users.Get)
		users.PUT("/:id", h.Users.Update)
		users.PATCH("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Delete)
	}

	notices := api.Group("/notices")
	{
		notices.GET("", h.Notices.List)
		notices.GET("/active", h.Notices.Active)
		notices.GET("/:id", h.Notices.Get)
		notices.POST("", staff, h.Notices.Create)
		notices.PUT("/:id", staff, h.Notices.Update)
		notices.PATCH("/:id", staff, h.Notices.Update)
		notices.DELETE("/:id", staff, h.Notices.Delete)
	}

	return r
}
