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

	debtapp "github.com/drump2112/SWP-sub001/internal/application/debt"
	partnerapp "github.com/drump2112/SWP-sub001/internal/application/partner"
	"github.com/drump2112/SWP-sub001/internal/infrastructure/config"
	"github.com/drump2112/SWP-sub001/internal/infrastructure/logger"
	"github.com/drump2112/SWP-sub001/internal/infrastructure/persistence"
	"github.com/drump2112/SWP-sub001/internal/interfaces/http/handler"
	"github.com/drump2112/SWP-sub001/internal/interfaces/http/middleware"
	"github.com/drump2112/SWP-sub001/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Fuel Station Debt API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Initialize repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	customerStoreRepo := persistence.NewGormCustomerStoreRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)

	// Initialize application services
	codeAllocator := partnerapp.NewSequentialCodeAllocator(customerRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, customerStoreRepo, codeAllocator)
	debtService := debtapp.NewDebtService(customerRepo, ledgerRepo)
	debtSaleService := debtapp.NewDebtSaleService(customerRepo, ledgerRepo)
	creditService := debtapp.NewCreditService(customerRepo, customerStoreRepo, storeRepo, ledgerRepo)
	openingBalanceService := debtapp.NewOpeningBalanceService(customerRepo, storeRepo, ledgerRepo)

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	debtHandler := handler.NewDebtHandler(debtService, debtSaleService)
	creditHandler := handler.NewCreditHandler(creditService)
	openingBalanceHandler := handler.NewOpeningBalanceHandler(openingBalanceService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Partner domain (customers)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "partner service ready"})
	})
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.POST("/customers/check-duplicate", customerHandler.CheckDuplicate)
	partnerRoutes.POST("/customers/import", customerHandler.Import)
	partnerRoutes.GET("/customers/code/:code", customerHandler.GetByCode)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.DELETE("/customers/:id", customerHandler.Delete)
	partnerRoutes.PATCH("/customers/:id/toggle-active", customerHandler.ToggleActive)

	// Debt domain (ledger, credit limits, opening balances)
	debtRoutes := router.NewDomainGroup("debt", "/debt")
	debtRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "debt service ready"})
	})
	debtRoutes.POST("/customers/debt-sale", debtHandler.CreateDebtSale)
	debtRoutes.GET("/customers/:id/balance", debtHandler.GetBalance)
	debtRoutes.GET("/customers/:id/statement", debtHandler.GetStatement)
	// Credit limit routes
	debtRoutes.GET("/customers/credit-status/all", creditHandler.GetAllCreditStatus)
	debtRoutes.GET("/customers/:id/credit-status", creditHandler.GetCreditStatus)
	debtRoutes.POST("/customers/:id/validate-debt-limit", creditHandler.ValidateDebtLimit)
	debtRoutes.GET("/customers/:id/store-credit-limits", creditHandler.GetStoreCreditLimits)
	debtRoutes.PUT("/customers/:id/stores/:storeId/credit-limit", creditHandler.UpdateStoreCreditLimit)
	debtRoutes.PUT("/customers/:id/bypass", creditHandler.SetCustomerBypass)
	debtRoutes.PUT("/customers/:id/stores/:storeId/bypass", creditHandler.SetStoreBypass)
	debtRoutes.GET("/customers/:id/stores/:storeId/bypass-status", creditHandler.CheckBypass)
	// Opening balance routes
	debtRoutes.POST("/customers/opening-balance/import", openingBalanceHandler.Import)
	debtRoutes.GET("/customers/opening-balance", openingBalanceHandler.List)
	debtRoutes.PUT("/customers/opening-balance/:id", openingBalanceHandler.Update)
	debtRoutes.DELETE("/customers/opening-balance/:id", openingBalanceHandler.Delete)

	r.Register(partnerRoutes).
		Register(debtRoutes)

	// Register system routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
