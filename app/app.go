package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/vnkhanh/kids-story-backend/config"
	"github.com/vnkhanh/kids-story-backend/controllers"
	"github.com/vnkhanh/kids-story-backend/middleware"
	"github.com/vnkhanh/kids-story-backend/migrations"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/repository"
	"github.com/vnkhanh/kids-story-backend/routes"
	"github.com/vnkhanh/kids-story-backend/services"
	"github.com/vnkhanh/kids-story-backend/storage"
	"github.com/vnkhanh/kids-story-backend/utils"
	"github.com/vnkhanh/kids-story-backend/ws"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		NewLogger,
		config.NewDB,
		config.NewPgxPool,
		NewObjectStorage,
	),
	fx.Provide(
		fx.Annotate(repository.NewStoryGorm, fx.As(new(repository.StoryStore))),
		fx.Annotate(repository.NewAccountGorm, fx.As(new(repository.AccountStore))),
		fx.Annotate(repository.NewTaxonomyGorm, fx.As(new(repository.TaxonomyStore))),
		fx.Annotate(repository.NewStatsPgx, fx.As(new(repository.StatsReader))),
	),
	fx.Provide(
		ws.NewHub,
		NewJWT,
		NewAuthService,
		NewSequencer,
		services.NewStoryService,
		services.NewCatalog,
		services.NewTaxonomyService,
		services.NewDashboardService,
	),
	fx.Provide(
		NewHealthController,
		controllers.NewAuthController,
		controllers.NewCatalogController,
		NewStoryController,
		controllers.NewDashboardController,
		NewWSHandler,
		NewRouter,
	),
	fx.Invoke(
		runMigrations,
		bootstrap,
		scheduleCleanup,
		runHTTPServer,
	),
)

// NewLogger initialises sentry when a DSN is configured and fans errors out to it
func NewLogger(lc fx.Lifecycle, cfg *config.Config) (logger.Logger, error) {
	withSentry := cfg.App.SentryDSN != ""
	if withSentry {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.App.SentryDSN,
			Environment: cfg.App.Env,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry init: %w", err)
		}

		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sentry.Flush(2 * time.Second)
				return nil
			},
		})
	}

	return logger.New(logger.Opts{
		Env:    cfg.App.Env,
		Level:  cfg.App.LogLevel,
		Sentry: withSentry,
	}), nil
}

func NewObjectStorage(cfg *config.Config) (storage.ObjectStorage, error) {
	switch cfg.Storage.Driver {
	case "minio":
		return storage.NewMinio(
			cfg.Storage.MinioEndpoint,
			cfg.Storage.MinioAccessKey,
			cfg.Storage.MinioSecretKey,
			cfg.Storage.Bucket,
			cfg.Storage.MinioUseSSL,
		)
	case "supabase", "":
		return storage.NewSupabase(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, cfg.Storage.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func NewJWT(cfg *config.Config) *utils.JWT {
	return utils.NewJWT(cfg.Auth.JWTSecret)
}

func NewAuthService(accounts repository.AccountStore, jwt *utils.JWT, hub *ws.Hub, cfg *config.Config, log logger.Logger) *services.AuthService {
	return services.NewAuthService(accounts, jwt, hub, services.AuthConfig{
		SessionTTL:     cfg.Auth.SessionTTL,
		GoogleClientID: cfg.Auth.GoogleClientID,
		AdminEmails:    cfg.Auth.AdminEmails,
	}, log)
}

func NewSequencer(store repository.StoryStore, objects storage.ObjectStorage, cfg *config.Config, log logger.Logger) *services.Sequencer {
	return services.NewSequencer(store, objects, cfg.MediaBase(), log)
}

func NewHealthController(db *gorm.DB) (*controllers.HealthController, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return controllers.NewHealthController(sqlDB), nil
}

func NewStoryController(stories *services.StoryService, hub *ws.Hub, log logger.Logger) *controllers.StoryController {
	return controllers.NewStoryController(stories, hub, log)
}

func NewWSHandler(hub *ws.Hub, auth *services.AuthService, cfg *config.Config, log logger.Logger) *ws.Handler {
	return ws.NewHandler(hub, auth, cfg.App.AllowOrigins, log)
}

type routerParams struct {
	fx.In

	Config    *config.Config
	Auth      *services.AuthService
	Health    *controllers.HealthController
	AuthCtl   *controllers.AuthController
	Catalog   *controllers.CatalogController
	Stories   *controllers.StoryController
	Dashboard *controllers.DashboardController
	WS        *ws.Handler
}

func NewRouter(p routerParams) *gin.Engine {
	if p.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     p.Config.App.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	return routes.SetupRouter(r, routes.Handlers{
		Health:       p.Health,
		Auth:         p.AuthCtl,
		Catalog:      p.Catalog,
		Stories:      p.Stories,
		Dashboard:    p.Dashboard,
		WS:           p.WS,
		Sessions:     p.Auth,
		LoginLimiter: middleware.NewIPLimiter(p.Config.Auth.LoginPerMinute, time.Minute, p.Config.Auth.LoginBurst),
	})
}

func runMigrations(lc fx.Lifecycle, db *gorm.DB, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := migrations.Up(ctx, sqlDB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("Migrations applied")
			return nil
		},
	})
}

// bootstrap seeds the filter lists and the configured admin account
func bootstrap(lc fx.Lifecycle, taxonomy *services.TaxonomyService, auth *services.AuthService, cfg *config.Config, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := taxonomy.Seed(ctx); err != nil {
				log.Warn("Taxonomy seed failed", "error", err)
			}
			return auth.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		},
	})
}

func scheduleCleanup(lc fx.Lifecycle, auth *services.AuthService, log logger.Logger) error {
	job, err := utils.NewCleanupJob(auth, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return job.Start(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			return job.Stop()
		},
	})
	return nil
}

func runHTTPServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine, log logger.Logger) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
