package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sma-fee-api/api/swagger"
	"github.com/noah-isme/sma-fee-api/internal/handler"
	"github.com/noah-isme/sma-fee-api/internal/middleware"
	"github.com/noah-isme/sma-fee-api/internal/repository"
	"github.com/noah-isme/sma-fee-api/internal/service"
	"github.com/noah-isme/sma-fee-api/pkg/cache"
	"github.com/noah-isme/sma-fee-api/pkg/config"
	"github.com/noah-isme/sma-fee-api/pkg/database"
	"github.com/noah-isme/sma-fee-api/pkg/jobs"
	"github.com/noah-isme/sma-fee-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-fee-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-fee-api/pkg/middleware/requestid"
	"github.com/noah-isme/sma-fee-api/pkg/storage"
)

// @title SMA Fee API
// @version 0.1.0
// @description Fee ledger and billing engine
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Finance.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Finance.DashboardCacheTTL, logr, true)
		}
	}

	studentRepo := repository.NewStudentRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reportRepo := repository.NewReportJobRepository(db)

	defaultLateFee, err := decimal.NewFromString(cfg.Finance.DefaultLateFeePerDay)
	if err != nil {
		logr.Sugar().Warnw("invalid FEE_DEFAULT_LATE_FEE_PER_DAY, using 20", "value", cfg.Finance.DefaultLateFeePerDay)
		defaultLateFee = decimal.NewFromInt(20)
	}
	settingsSvc := service.NewSettingsService(settingsRepo, cacheSvc, logr, cfg.Finance.DefaultDueDay, defaultLateFee, nil)
	ledgerSvc := service.NewLedgerService(service.LedgerServiceParams{
		Roster:     studentRepo,
		Structures: feeRepo,
		Discounts:  discountRepo,
		Settings:   settingsSvc,
		Payments:   paymentRepo,
		Metrics:    metricsSvc,
		Logger:     logr,
	})
	feeSvc := service.NewFeeService(service.FeeServiceParams{
		Repo:   feeRepo,
		Cache:  cacheSvc,
		Logger: logr,
	})
	discountSvc := service.NewDiscountService(service.DiscountServiceParams{
		Repo:     discountRepo,
		Students: studentRepo,
		Cache:    cacheSvc,
		Logger:   logr,
	})
	paymentSvc := service.NewPaymentService(service.PaymentServiceParams{
		Repo:     paymentRepo,
		Students: studentRepo,
		Cache:    cacheSvc,
		Metrics:  metricsSvc,
		Logger:   logr,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Students:    studentRepo,
		Ledgers:     ledgerSvc,
		Payments:    paymentRepo,
		Cache:       cacheSvc,
		Metrics:     metricsSvc,
		Logger:      logr,
		CacheTTL:    cfg.Finance.DashboardCacheTTL,
		RecentLimit: cfg.Finance.RecentTransactionLimit,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("report storage init failed", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(ledgerSvc, dashboardSvc, fileStore, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr, nil, nil)

		worker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
		queue := jobs.NewQueue("financial-reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		reportSvc = service.NewReportService(reportRepo, queue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ledgerHandler := handler.NewLedgerHandler(ledgerSvc)
	feeHandler := handler.NewFeeHandler(feeSvc)
	discountHandler := handler.NewDiscountHandler(discountSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	api := r.Group(cfg.APIPrefix)
	finance := api.Group("/finance")
	{
		finance.GET("/students/:id/ledger", ledgerHandler.Ledger)
		finance.GET("/students/:id/fee-profile", ledgerHandler.FeeProfile)
		finance.GET("/students/:id/discounts", discountHandler.StudentAssignments)

		finance.GET("/fee-categories", feeHandler.ListCategories)
		finance.POST("/fee-categories", feeHandler.CreateCategory)
		finance.GET("/fee-categories/:id", feeHandler.GetCategory)
		finance.PUT("/fee-categories/:id", feeHandler.UpdateCategory)
		finance.GET("/fee-structures", feeHandler.ListStructures)
		finance.POST("/fee-structures", feeHandler.CreateStructure)
		finance.PUT("/fee-structures/:id", feeHandler.UpdateStructure)

		finance.GET("/discount-categories", discountHandler.ListCategories)
		finance.POST("/discount-categories", discountHandler.CreateCategory)
		finance.PUT("/discount-categories/:id", discountHandler.UpdateCategory)
		finance.POST("/discount-assignments", discountHandler.Assign)
		finance.PATCH("/discount-assignments/:id", discountHandler.Toggle)

		finance.GET("/settings", settingsHandler.Get)
		finance.PUT("/settings", settingsHandler.Update)

		finance.POST("/payments", paymentHandler.Collect)
		finance.GET("/payments", paymentHandler.List)
		finance.GET("/receipts/:receiptNumber", paymentHandler.Receipt)
		finance.GET("/receipts/:receiptNumber/pdf", paymentHandler.ReceiptPDF)

		finance.GET("/dashboard", dashboardHandler.Snapshot)

		if reportSvc != nil {
			reportHandler := handler.NewReportHandler(reportSvc)
			finance.POST("/reports", reportHandler.Create)
			finance.GET("/reports/:id", reportHandler.Status)
			finance.GET("/reports/export/:token", reportHandler.Download)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
