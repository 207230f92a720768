package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/vacantes/internal/app/controllers"
	appMigrations "github.com/yigit/vacantes/internal/app/migrations"
	appRepos "github.com/yigit/vacantes/internal/app/repositories"
	appRoutes "github.com/yigit/vacantes/internal/app/routes"
	appServices "github.com/yigit/vacantes/internal/app/services"
	"github.com/yigit/vacantes/internal/config"
	"github.com/yigit/vacantes/internal/db"
	appMiddleware "github.com/yigit/vacantes/internal/middleware"
	pkgAuth "github.com/yigit/vacantes/internal/pkg/auth"
	"github.com/yigit/vacantes/internal/pkg/logger"
	"github.com/yigit/vacantes/internal/pkg/metrics"
	"github.com/yigit/vacantes/internal/pkg/ratelimit"
	"github.com/yigit/vacantes/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DirectoryService   appServices.DirectoryService
	CapacityService    appServices.CapacityService
	VacancyService     appServices.VacancyService
	ApplicationService appServices.ApplicationService
	AssociationService appServices.AssociationService
	MessageService     appServices.MessageService

	AccountController     *appControllers.AccountController
	VacancyController     *appControllers.VacancyController
	ApplicationController *appControllers.ApplicationController
	RosterController      *appControllers.RosterController
	MessageController     *appControllers.MessageController
	HealthController      *appControllers.HealthController

	AuthMiddleware *appMiddleware.AuthMiddleware
	MessageLimiter ratelimit.Limiter
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Redis          *redis.Client
	Logger         zerolog.Logger
}

// Close releases clients owned by the dependency graph
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv(config.EnvPrefix + "CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg, logger.Component(lgr, "db"))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component(lgr, "migrations"))
	if err := migrator.MigrateFS(ctx, os.DirFS(migrationsDir), "."); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// newMessageLimiter prefers the shared Redis window and falls back to an
// in-process token bucket.
func newMessageLimiter(cfg *config.Config, client *redis.Client) ratelimit.Limiter {
	switch {
	case !cfg.RateLimit.Enabled:
		return ratelimit.Noop{}
	case client != nil:
		return ratelimit.NewRedisLimiter(client, cfg.RateLimit.MessageLimit, cfg.MessageWindow(), "vacantes:ratelimit")
	default:
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	}
}

func newRedisClient(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// the limiter fails open, so a cold redis only degrades throttling
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis not reachable at startup")
	} else {
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connected")
	}
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)
	repos := deps.Repos

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
		TokenExp:    cfg.DevTokenExpiration(),
	})

	deps.DirectoryService = appServices.NewDirectoryService(repos.AccountRepository, database, logger.Component(lgr, "directory"))
	deps.CapacityService = appServices.NewCapacityService(repos.VacancyRepository, repos.ApplicationRepository)
	deps.AssociationService = appServices.NewAssociationService(repos.AssociationRepository, logger.Component(lgr, "ledger"))
	deps.VacancyService = appServices.NewVacancyService(
		repos.VacancyRepository,
		deps.CapacityService,
		deps.DirectoryService,
		database,
		logger.Component(lgr, "vacancies"),
	)
	deps.ApplicationService = appServices.NewApplicationService(
		repos.ApplicationRepository,
		repos.VacancyRepository,
		deps.CapacityService,
		deps.DirectoryService,
		deps.AssociationService,
		database,
		logger.Component(lgr, "applications"),
	)
	deps.MessageService = appServices.NewMessageService(
		repos.MessageRepository,
		repos.ApplicationRepository,
		repos.VacancyRepository,
		deps.DirectoryService,
		logger.Component(lgr, "messages"),
	)

	deps.Redis = newRedisClient(cfg, lgr)
	deps.MessageLimiter = newMessageLimiter(cfg, deps.Redis)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AccountController = appControllers.NewAccountController(deps.DirectoryService)
	deps.VacancyController = appControllers.NewVacancyController(deps.VacancyService, deps.CapacityService)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService)
	deps.RosterController = appControllers.NewRosterController(deps.AssociationService)
	deps.MessageController = appControllers.NewMessageController(deps.MessageService)
	deps.HealthController = appControllers.NewHealthController(database)

	if cfg.Seed.Enabled {
		seeder := &seed.Seeder{
			Directory: deps.DirectoryService,
			Vacancies: deps.VacancyService,
			Accounts:  repos.AccountRepository,
			Tokens:    deps.JWTService,
			Logger:    logger.Component(lgr, "seed"),
		}
		if err := seeder.CreateDefaultData(context.Background()); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(logger.Component(lgr, "http")),
		metrics.GinMiddleware(),
	)

	appRoutes.SetupRouter(router,
		deps.AccountController,
		deps.VacancyController,
		deps.ApplicationController,
		deps.RosterController,
		deps.MessageController,
		deps.HealthController,
		deps.AuthMiddleware,
		deps.MessageLimiter,
		logger.Component(lgr, "ratelimit"),
	)

	return router
}
