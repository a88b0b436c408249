// Package bootstrap wires configuration, database, services and routes
// together for the HTTP server.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/skosana/student-portal/internal/app/controllers"
	appMigrations "github.com/skosana/student-portal/internal/app/migrations"
	appRepos "github.com/skosana/student-portal/internal/app/repositories"
	appRoutes "github.com/skosana/student-portal/internal/app/routes"
	appServices "github.com/skosana/student-portal/internal/app/services"
	"github.com/skosana/student-portal/internal/config"
	"github.com/skosana/student-portal/internal/db"
	appMiddleware "github.com/skosana/student-portal/internal/middleware"
	"github.com/skosana/student-portal/internal/pkg/filestorage"
	"github.com/skosana/student-portal/internal/pkg/logger"
	"github.com/skosana/student-portal/internal/pkg/session"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       *appServices.AuthService
	ProfileService    *appServices.ProfileService
	AuthController    *appControllers.AuthController
	ProfileController *appControllers.ProfileController
	SessionMiddleware *appMiddleware.SessionMiddleware
	Sessions          *session.MemoryStore
	UserRepo          appRepos.UserRepository
	FileStorage       *filestorage.LocalStorage
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database ready")
	return dbPool, nil
}

// BuildDependencies constructs repositories, services, controllers and
// middleware on top of the database pool.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, "uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to set up file storage: %w", err)
	}

	sessions := session.NewMemoryStore(cfg.SessionTTL())

	userRepo := appRepos.NewUserRepository(dbPool)
	authService := appServices.NewAuthService(userRepo, lgr)
	profileService := appServices.NewProfileService(userRepo, storage, lgr)

	deps := &Dependencies{
		AuthService:       authService,
		ProfileService:    profileService,
		AuthController:    appControllers.NewAuthController(authService, sessions, lgr),
		ProfileController: appControllers.NewProfileController(profileService, lgr),
		SessionMiddleware: appMiddleware.NewSessionMiddleware(sessions),
		Sessions:          sessions,
		UserRepo:          userRepo,
		FileStorage:       storage,
		Logger:            lgr,
	}

	return deps, nil
}

// SetupRouter builds the gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router, deps.AuthController, deps.ProfileController, deps.SessionMiddleware)

	return router
}
