package router

import (
	"log"
	"time"

	"huellitas/config"
	"huellitas/internal/handler"
	"huellitas/internal/matching"
	"huellitas/internal/middleware"
	"huellitas/internal/repository"
	"huellitas/internal/service"
	"huellitas/internal/ws"
	"huellitas/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	petRepo := repository.NewPetRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	helpRepo := repository.NewHelpPostRepository(db)

	eventsHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc)
	matchEvents := service.NewMatchEventService(petRepo, notifSvc, eventsHub)

	// Match engine over the gorm repository and the pet actor source.
	engine := matching.NewEngine(matchRepo, repository.NewPetActorSource(petRepo), matchEvents)
	engine.SetFeedPageSize(cfg.Match.FeedPageSize)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	petHandler := handler.NewPetHandler(petRepo, cloud)
	matchHandler := handler.NewMatchHandler(engine, petRepo, notifSvc, eventsHub)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	helpHandler := handler.NewHelpPostHandler(helpRepo, cloud)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.Token)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", authHandler.Me)
			me.PUT("/fcm-token", authHandler.SetFCMToken)
		}

		pets := api.Group("/pets")
		pets.Use(authMw)
		{
			pets.POST("", petHandler.Create)
			pets.GET("", petHandler.List)
			pets.GET("/:id", petHandler.Get)
			pets.PUT("/:id", petHandler.Update)
			pets.DELETE("/:id", petHandler.Delete)
			pets.POST("/:id/photo", petHandler.UploadPhoto)
		}

		matches := api.Group("/matches")
		matches.Use(authMw)
		{
			matches.GET("/discover", matchHandler.Discover)
			matches.POST("", matchHandler.Propose)
			matches.POST("/:id/respond", matchHandler.Respond)
			matches.GET("/pending", matchHandler.Pending)
			matches.GET("/awaiting", matchHandler.Awaiting)
			matches.GET("/confirmed", matchHandler.Confirmed)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
		}

		help := api.Group("/help-posts")
		{
			help.GET("", helpHandler.List)
			help.GET("/:id", helpHandler.Get)
			help.POST("", authMw, helpHandler.Create)
			help.PATCH("/:id/resolve", authMw, helpHandler.Resolve)
			help.DELETE("/:id", authMw, helpHandler.Delete)
			help.POST("/:id/photo", authMw, helpHandler.UploadPhoto)
		}

		api.POST("/uploads", authMw, uploadHandler.UploadImage)

		// Realtime event stream (token via query param).
		api.GET("/ws/events", ws.UpgradeEventsWS(&cfg.JWT, eventsHub))
	}

	return r
}
