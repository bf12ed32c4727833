package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	acctapp "github.com/timax/backend/internal/application/accounting"
	assetsapp "github.com/timax/backend/internal/application/assets"
	payrollapp "github.com/timax/backend/internal/application/payroll"
	"github.com/timax/backend/internal/domain/shared"
	"github.com/timax/backend/internal/infrastructure/cache"
	"github.com/timax/backend/internal/infrastructure/config"
	"github.com/timax/backend/internal/infrastructure/logger"
	"github.com/timax/backend/internal/infrastructure/persistence"
	"github.com/timax/backend/internal/infrastructure/scheduler"
	"github.com/timax/backend/internal/interfaces/http/handler"
	"github.com/timax/backend/internal/interfaces/http/middleware"
	"github.com/timax/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Timax Backend API
//	@version		1.0
//	@description	Accounting, fixed assets and payroll backend for an automotive services shop

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting Timax Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Production runs the SQL migrations via cmd/migrate
	if cfg.App.Env != "production" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	// Report cache: Redis when reachable, in-process fallback otherwise
	var reportCache acctapp.ReportCache
	redisCache, err := cache.NewRedisReportCache(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory report cache", zap.Error(err))
		reportCache = cache.NewMemoryReportCache()
	} else {
		reportCache = redisCache
		log.Info("Redis report cache connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	accountCategoryRepo := persistence.NewGormAccountCategoryRepository(db.DB)
	journalEntryRepo := persistence.NewGormJournalEntryRepository(db.DB)
	assetRepo := persistence.NewGormAssetRepository(db.DB)
	assetCategoryRepo := persistence.NewGormAssetCategoryRepository(db.DB)
	depreciationRecordRepo := persistence.NewGormDepreciationRecordRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	commissionRateRepo := persistence.NewGormCommissionRateRepository(db.DB)
	advanceRepo := persistence.NewGormAdvanceRepository(db.DB)
	tipRepo := persistence.NewGormTipRepository(db.DB)

	txManager := persistence.NewGormTransactionManager(db.DB)
	clock := shared.SystemClock{}

	// Initialize application services
	accountService := acctapp.NewAccountService(accountRepo, accountCategoryRepo, log)
	journalService := acctapp.NewJournalService(journalEntryRepo, accountRepo, txManager, clock, log)
	trialBalanceService := acctapp.NewTrialBalanceService(accountRepo, reportCache, clock, log)

	lifecycleService := assetsapp.NewLifecycleService(
		assetRepo,
		assetCategoryRepo,
		depreciationRecordRepo,
		journalService,
		txManager,
		clock,
		log,
		assetsapp.JournalPolicy(cfg.Ledger.PurchasePolicy),
		assetsapp.LedgerAccounts{
			CashAccountCode:     cfg.Ledger.CashAccountCode,
			GainLossAccountCode: cfg.Ledger.GainLossAccountCode,
		},
	)

	commissionService := payrollapp.NewCommissionService(
		commissionRepo, commissionRateRepo, advanceRepo, txManager, clock, reportCache, log,
	)
	advanceService := payrollapp.NewAdvanceService(
		advanceRepo, commissionRepo, txManager, clock, reportCache, log,
	)
	tipService := payrollapp.NewTipService(tipRepo, clock, log)

	// Monthly depreciation scheduler
	if cfg.Depreciation.Enabled {
		day, hour, minute, err := scheduler.ParseMonthlySchedule(cfg.Depreciation.CronSchedule)
		if err != nil {
			log.Fatal("Invalid depreciation cron schedule", zap.Error(err))
		}
		cronConfig := scheduler.DefaultDepreciationCronConfig()
		cronConfig.CronDay = day
		cronConfig.CronHour = hour
		cronConfig.CronMinute = minute
		depreciationScheduler := scheduler.NewDepreciationCronScheduler(cronConfig, lifecycleService, log)
		if err := depreciationScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start depreciation scheduler", zap.Error(err))
		}
		defer func() {
			if err := depreciationScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping depreciation scheduler", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	accountHandler := handler.NewAccountHandler(accountService)
	journalHandler := handler.NewJournalHandler(journalService, trialBalanceService)
	assetHandler := handler.NewAssetHandler(lifecycleService)
	commissionHandler := handler.NewCommissionHandler(commissionService)
	advanceHandler := handler.NewAdvanceHandler(advanceService)
	tipHandler := handler.NewTipHandler(tipService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(accountHandler)
	r.Register(journalHandler)
	r.Register(assetHandler)
	r.Register(commissionHandler)
	r.Register(advanceHandler)
	r.Register(tipHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
