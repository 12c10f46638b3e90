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

	access := &auth.JWTer{
		Secret: []byte(cfg.JWT.AccessSecret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTTLMin) * time.Minute,
	}

	var redisCache *cache.Cache
	if cfg.Redis.Addr != "" {
		redisCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)
	categories := repo.NewCategoryRepo(db)
	orders := repo.NewOrderRepo(db)

	catalogSvc := service.NewCatalogService(products, categories, redisCache, log)
	orderSvc := service.NewOrderService(orders, service.DroppexConfig{
		URL:  cfg.Droppex.URL,
		Code: cfg.Droppex.Code,
		Key:  cfg.Droppex.Key,
	}, log)

	r := router.NewAdminEngine(router.AdminDeps{
		Log:        log,
		Users:      users,
		Access:     access,
		Admin:      handler.NewAdminHandler(service.NewUserService(users)),
		Products:   handler.NewProductHandler(catalogSvc, cfg.Site.UploadsDir),
		Categories: handler.NewCategoryHandler(catalogSvc, cfg.Site.UploadsDir),
		Orders:     handler.NewOrderHandler(orderSvc),
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	go func() {
		log.Info("admin api starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
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
