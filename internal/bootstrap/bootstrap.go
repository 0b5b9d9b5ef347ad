package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/oguzk/schoolatlas/internal/app/controllers"
	appMigrations "github.com/oguzk/schoolatlas/internal/app/migrations"
	appRepos "github.com/oguzk/schoolatlas/internal/app/repositories"
	appRoutes "github.com/oguzk/schoolatlas/internal/app/routes"
	appServices "github.com/oguzk/schoolatlas/internal/app/services"
	"github.com/oguzk/schoolatlas/internal/config"
	"github.com/oguzk/schoolatlas/internal/db"
	appMiddleware "github.com/oguzk/schoolatlas/internal/middleware"
	"github.com/oguzk/schoolatlas/internal/pkg/filestorage"
	"github.com/oguzk/schoolatlas/internal/pkg/logger"
	"github.com/oguzk/schoolatlas/internal/pkg/weblookup"
	"github.com/oguzk/schoolatlas/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	SchoolService         appServices.SchoolService
	StudentService        appServices.StudentService
	AchievementService    appServices.AchievementService
	SearchService         appServices.SearchService
	SchoolController      *appControllers.SchoolController
	StudentController     *appControllers.StudentController
	AchievementController *appControllers.AchievementController
	SearchController      *appControllers.SearchController
	Repos                 *appRepos.Repositories
	FileStorage           *filestorage.LocalStorage
	WebsiteFinder         weblookup.Finder
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is a convenience; a failure should not block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, "/static")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.WebsiteFinder = weblookup.NewHTMLFinder(cfg.Lookup.Endpoint, cfg.Lookup.UserAgent, cfg.LookupTimeout())

	deps.SchoolService = appServices.NewSchoolService(
		deps.Repos.SchoolRepository,
		deps.Repos.EnrollmentRepository,
		deps.WebsiteFinder,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.EnrollmentRepository,
		deps.Repos.AchievementRepository,
		deps.FileStorage,
	)
	deps.AchievementService = appServices.NewAchievementService(
		deps.Repos.AchievementRepository,
		deps.Repos.StudentRepository,
	)
	deps.SearchService = appServices.NewSearchService(
		deps.Repos.SchoolRepository,
		deps.Repos.StudentRepository,
	)

	deps.SchoolController = appControllers.NewSchoolController(deps.SchoolService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.AchievementController = appControllers.NewAchievementController(deps.AchievementService)
	deps.SearchController = appControllers.NewSearchController(deps.SearchService)

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
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS())

	appRoutes.SetupRouter(router,
		deps.SchoolController,
		deps.StudentController,
		deps.AchievementController,
		deps.SearchController,
	)

	return router
}
