package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/kids-story-backend/controllers"
	"github.com/vnkhanh/kids-story-backend/middleware"
	"github.com/vnkhanh/kids-story-backend/models"
	"github.com/vnkhanh/kids-story-backend/ws"
)

type Handlers struct {
	Health    *controllers.HealthController
	Auth      *controllers.AuthController
	Catalog   *controllers.CatalogController
	Stories   *controllers.StoryController
	Dashboard *controllers.DashboardController
	WS        *ws.Handler

	Sessions     middleware.SessionResolver
	LoginLimiter *middleware.IPLimiter
}

func SetupRouter(r *gin.Engine, h Handlers) *gin.Engine {
	r.GET("/ping", controllers.Ping)
	r.GET("/health", h.Health.Health)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(h.LoginLimiter), h.Auth.Login)
		auth.POST("/google", middleware.RateLimit(h.LoginLimiter), h.Auth.GoogleLogin)
		auth.GET("/session", middleware.AuthMiddleware(h.Sessions), h.Auth.Session)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	api.GET("/filters", h.Catalog.Filters)

	stories := api.Group("/stories")
	{
		stories.GET("", h.Catalog.List)
		stories.GET("/:slug", h.Catalog.Get)
		stories.GET("/:slug/slides", h.Catalog.Slides)
		stories.GET("/:slug/viewer", h.Catalog.Viewer)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(h.Sessions), middleware.RequireRoles(models.RoleAdmin, models.RoleEditor))

		admin.GET("/stories", h.Stories.List)
		admin.GET("/stories/:id", h.Stories.Get)
		admin.POST("/stories", h.Stories.Create)
		admin.PUT("/stories/:id", h.Stories.Update)
		admin.DELETE("/stories/:id", h.Stories.Delete)

		admin.GET("/dashboard", h.Dashboard.Get)
	}

	r.GET("/ws/uploads/:id", h.WS.Uploads)
	r.GET("/ws/session", h.WS.Session)

	return r
}
