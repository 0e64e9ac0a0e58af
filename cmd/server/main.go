package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	reconcileapp "github.com/ordersync/backend/internal/application/reconcile"
	"github.com/ordersync/backend/internal/domain/reconcile"
	"github.com/ordersync/backend/internal/infrastructure/config"
	"github.com/ordersync/backend/internal/infrastructure/locking"
	"github.com/ordersync/backend/internal/infrastructure/logger"
	"github.com/ordersync/backend/internal/infrastructure/odoo"
	"github.com/ordersync/backend/internal/infrastructure/persistence"
	"github.com/ordersync/backend/internal/infrastructure/scheduler"
	"github.com/ordersync/backend/internal/infrastructure/woocommerce"
	"github.com/ordersync/backend/internal/interfaces/http/handler"
	"github.com/ordersync/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting order sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database and run history
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	recordRepo := persistence.NewGormSyncRecordRepository(db.DB)

	// Upstream store adapter
	wooConfig := woocommerce.NewConfig(cfg.WooCommerce.BaseURL, cfg.WooCommerce.ConsumerKey, cfg.WooCommerce.ConsumerSecret)
	wooConfig.TimeoutSeconds = cfg.WooCommerce.TimeoutSeconds
	source, err := woocommerce.NewAdapter(wooConfig)
	if err != nil {
		log.Fatal("Failed to initialize store adapter", zap.Error(err))
	}

	// Downstream ERP gateway
	odooConfig := odoo.NewConfig(cfg.Odoo.BaseURL, cfg.Odoo.Database, cfg.Odoo.APIKey)
	odooConfig.TimeoutSeconds = cfg.Odoo.TimeoutSeconds
	gateway, err := odoo.NewGateway(odooConfig)
	if err != nil {
		log.Fatal("Failed to initialize ERP gateway", zap.Error(err))
	}

	// Run guard: redis when configured, otherwise in-process
	var runLock reconcile.RunLock
	if cfg.Redis.Enabled {
		redisLock, err := locking.NewRedisRunLock(locking.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisLock.Close(); err != nil {
				log.Error("Error closing redis connection", zap.Error(err))
			}
		}()
		runLock = redisLock
		log.Info("Using redis run guard")
	} else {
		runLock = locking.NewInMemoryRunLock()
		log.Info("Using in-memory run guard")
	}

	// Reconciliation pipeline
	translator, err := reconcileapp.NewTranslator(reconcileapp.TranslatorConfig{
		HomeCountryID:          cfg.Sync.HomeCountryID,
		PlaceholderEmailDomain: cfg.Sync.PlaceholderEmailDomain,
		PlatformLabel:          cfg.Sync.PlatformLabel,
	})
	if err != nil {
		log.Fatal("Failed to initialize translator", zap.Error(err))
	}
	resolver := reconcileapp.NewResolver(gateway, log)
	engine := reconcileapp.NewEngine(gateway, resolver, translator, log)
	runner, err := reconcileapp.NewRunner(reconcileapp.RunnerConfig{
		PageSize: cfg.Sync.PageSize,
		LockTTL:  cfg.Sync.LockTTL,
	}, source, engine, runLock, recordRepo, log)
	if err != nil {
		log.Fatal("Failed to initialize batch runner", zap.Error(err))
	}

	// Background scheduler
	if cfg.Scheduler.Enabled {
		runScheduler, err := scheduler.NewRunScheduler(scheduler.RunSchedulerConfig{
			Interval:   cfg.Scheduler.Interval,
			RunTimeout: 5 * time.Minute,
		}, runner, log)
		if err != nil {
			log.Fatal("Failed to initialize run scheduler", zap.Error(err))
		}
		if err := runScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start run scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := runScheduler.Stop(stopCtx); err != nil {
				log.Error("Error stopping run scheduler", zap.Error(err))
			}
		}()
	}

	// HTTP interface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginEngine := gin.New()
	ginEngine.Use(logger.RequestLogger(log))
	ginEngine.Use(logger.Recovery(log))
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := ginEngine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Env, db)
	syncHandler := handler.NewSyncHandler(runner, recordRepo, log)

	r := router.NewRouter(ginEngine)
	r.Health("/healthz", systemHandler.Health)
	r.Register(syncHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        ginEngine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
