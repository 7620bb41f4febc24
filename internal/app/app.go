// Package app wires config into the repositories, services and HTTP registry
// shared by cmd/api and cmd/admin.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"roomhub/internal/core/auth"
	"roomhub/internal/core/cache"
	"roomhub/internal/core/config"
	"roomhub/internal/core/database"
	"roomhub/internal/core/logger"
	"roomhub/internal/repo"
	"roomhub/internal/service"
	"roomhub/internal/storage"
	"roomhub/internal/transport/http/handler"
	"roomhub/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Cache    *cache.Cache // nil when redis is disabled or unreachable
	JWT      *auth.JWTer
	Store    *storage.LocalStore
	Admin    *service.AdminService
	Janitor  *service.TokenJanitor
	Registry *router.Registry
}

func NewJWTer(c config.JWT) *auth.JWTer {
	return &auth.JWTer{
		Secret:     []byte(c.Secret),
		Issuer:     c.Issuer,
		AccessTTL:  c.AccessTTL(),
		RefreshTTL: c.RefreshTTL(),
		Leeway:     c.Leeway(),
	}
}

// RouterOptions maps the limits and storage sections onto engine options.
func RouterOptions(c *config.Config) router.Options {
	return router.Options{
		RPS:         c.Limits.RPS,
		Burst:       c.Limits.Burst,
		Concurrency: c.Limits.Concurrency,
		MaxBody:     c.Limits.MaxBodyMB << 20,
		Timeout:     time.Duration(c.Limits.TimeoutSec) * time.Second,
		CORSOrigins: c.App.HTTP.CORSOrigins,
		MediaDir:    c.Storage.MediaDir,
		MediaURL:    c.Storage.MediaURL,
	}
}

// New opens the database (migrating when configured), connects redis when
// enabled and builds every service and HTTP module.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             logger.StdLogger(l.Named("gorm"), zapcore.WarnLevel),
	})
	if err != nil {
		return nil, err
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		l.Info("automigrate done")
	}

	var c *cache.Cache
	if cfg.Redis.Enabled {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := c.Ping(pctx)
		cancel()
		if err != nil {
			l.Warn("redis unreachable, catalog cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
			c = nil
		}
	}

	store, err := storage.NewLocalStore(cfg.Storage.MediaDir, cfg.Storage.MediaURL)
	if err != nil {
		return nil, err
	}

	jwter := NewJWTer(cfg.JWT)
	users := repo.NewUserRepo(db)
	tokens := repo.NewTokenRepo(db)
	districts := repo.NewDistrictRepo(db)

	authSvc := service.NewAuthService(users, tokens, jwter, l.Named("auth"))
	districtSvc := service.NewDistrictService(districts)
	catalogSvc := service.NewCatalogService(repo.NewCatalogRepo(db), c,
		time.Duration(cfg.Redis.CatalogTTLSec)*time.Second, l.Named("catalog"))
	adminSvc := service.NewAdminService(users, tokens, l.Named("admin"))

	reg := (&router.Registry{}).Register(
		handler.NewAuth(authSvc),
		handler.NewTodo(service.NewTodoService(repo.NewTodoRepo(db))),
		handler.NewRoom(service.NewRoomService(repo.NewRoomRepo(db), districts, store, l.Named("room")), store.URL),
		handler.NewDistrict(districtSvc),
		handler.NewCatalog(catalogSvc),
		handler.NewUsers(adminSvc),
	)

	return &App{
		Cfg:      cfg,
		Log:      l,
		DB:       db,
		Cache:    c,
		JWT:      jwter,
		Store:    store,
		Admin:    adminSvc,
		Janitor:  service.NewTokenJanitor(tokens, time.Duration(cfg.Tokens.PruneIntervalMin)*time.Minute, l.Named("janitor")),
		Registry: reg,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
