package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clindoeil-api/internal/core/auth"
	"clindoeil-api/internal/core/cache"
	"clindoeil-api/internal/core/config"
	"clindoeil-api/internal/core/database"
	"clindoeil-api/internal/core/logger"
	"clindoeil-api/internal/core/server"
	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/ecwid"
	"clindoeil-api/internal/notify"
	"clindoeil-api/internal/repo"
	"clindoeil-api/internal/service"
	"clindoeil-api/internal/transport/http/handler"
	"clindoeil-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Product{}, &domain.Category{}, &domain.Order{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	tokens := auth.NewTokenPair(
		cfg.JWT.Issuer,
		cfg.JWT.AccessSecret, time.Duration(cfg.JWT.AccessTTLMin)*time.Minute,
		cfg.JWT.RefreshSecret, time.Duration(cfg.JWT.RefreshTTLDays)*24*time.Hour,
	)

	var redisCache *cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)
	categories := repo.NewCategoryRepo(db)
	orders := repo.NewOrderRepo(db)

	authSvc := service.NewAuthService(users, tokens, notify.NewLogNotifier(log), cfg.Auth.AutoVerifyEmail)
	catalogSvc := service.NewCatalogService(products, categories, redisCache, log)
	orderSvc := service.NewOrderService(orders, service.DroppexConfig{
		URL:  cfg.Droppex.URL,
		Code: cfg.Droppex.Code,
		Key:  cfg.Droppex.Key,
	}, log)

	r := router.NewAPIEngine(router.APIDeps{
		Log:        log,
		Cfg:        cfg,
		Users:      users,
		Access:     &tokens.Access,
		Auth:       handler.NewAuthHandler(authSvc, cfg.JWT.RefreshCookieDays, cfg.App.Production(), cfg.Site.BaseURL),
		Products:   handler.NewProductHandler(catalogSvc, cfg.Site.UploadsDir),
		Categories: handler.NewCategoryHandler(catalogSvc, cfg.Site.UploadsDir),
		Orders:     handler.NewOrderHandler(orderSvc),
		Ecwid:      handler.NewEcwidHandler(ecwid.New(cfg.Ecwid.StoreID, cfg.Ecwid.Token), log),
		Site:       handler.NewSiteHandler(catalogSvc, redisCache, cfg.Site.BaseURL, log),
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	go func() {
		log.Info("storefront api starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("storefront api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("storefront api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
			cfg.Log.FileMaxSizeMB, cfg.Log.FileMaxBackups, cfg.Log.FileMaxAgeDays, cfg.Log.FileCompress)
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
