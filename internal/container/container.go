package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/travel-diary-api/app/db"
	"github.com/FACorreiaa/travel-diary-api/config"
	"github.com/FACorreiaa/travel-diary-api/internal/api/auth"
	"github.com/FACorreiaa/travel-diary-api/internal/api/entry"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *slog.Logger
	Pool         *pgxpool.Pool // set in postgres mode
	SQLite       *sql.DB       // set in sqlite mode
	AuthService  *auth.AuthServiceImpl
	AuthHandler  *auth.AuthHandler
	EntryHandler *entry.EntryHandler
	Authenticate func(http.Handler) http.Handler
}

// NewContainer opens the configured store, applies migrations and wires the
// repositories, services and handlers. A bad JWT or bcrypt setting is returned
// as an error; callers treat it as fatal.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		logger.Error("Invalid JWT configuration", slog.Any("error", err))
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger}

	var authRepo auth.AuthRepo
	var entryRepo entry.EntryRepo
	timeout := cfg.Repositories.QueryTimeout

	switch cfg.Repositories.Driver {
	case config.DriverPostgres:
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		// Run migrations *before* initializing the main pool
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			return nil, err
		}
		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			return nil, err
		}
		if !database.WaitForDB(ctx, pool, logger) {
			pool.Close()
			return nil, errors.New("database not ready after waiting")
		}
		c.Pool = pool
		authRepo = auth.NewPostgresAuthRepo(pool, timeout, logger)
		entryRepo = entry.NewPostgresEntryRepo(pool, timeout, logger)

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.Repositories.SQLite.Path, logger)
		if err != nil {
			return nil, err
		}
		if err := database.RunSQLiteMigrations(db, logger); err != nil {
			db.Close()
			return nil, err
		}
		c.SQLite = db
		authRepo = auth.NewSQLiteAuthRepo(db, timeout, logger)
		entryRepo = entry.NewSQLiteEntryRepo(db, timeout, logger)

	default:
		return nil, fmt.Errorf("unsupported repositories.driver %q", cfg.Repositories.Driver)
	}

	if cfg.Auth.UserCacheTTL > 0 {
		authRepo = auth.NewCachedAuthRepo(authRepo, cfg.Auth.UserCacheTTL, logger)
	}

	authService, err := auth.NewAuthService(authRepo, tokens, cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	entryService := entry.NewEntryService(entryRepo, logger)

	c.AuthService = authService
	c.AuthHandler = auth.NewAuthHandler(authService, logger)
	c.EntryHandler = entry.NewEntryHandler(entryService, logger)
	c.Authenticate = auth.Authenticate(logger, authService)

	logger.Info("Container initialized", slog.String("driver", cfg.Repositories.Driver))
	return c, nil
}

// Close releases the database handles.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			c.Logger.Warn("Error closing sqlite database", slog.Any("error", err))
		}
	}
}
