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

	cartapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/cart"
	catalogapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/catalog"
	identityapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/identity"
	orderapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/order"
	paymentapp "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/application/payment"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/domain/shared"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/auth"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/cache"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/config"
	identityinfra "github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/identity"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/logger"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/payment"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/infrastructure/persistence"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/interfaces/http/handler"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/interfaces/http/middleware"
	"github.com/nguyenvanhieu6732/do-an-tot-nghiep/internal/interfaces/http/router"
)

const version = "1.0.0"

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Initialize database with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Cache and payment replay guard. Redis when enabled, in-process
	// fallbacks otherwise so a single-node deployment needs no Redis.
	var (
		productCache shared.Cache
		replayGuard  shared.ReplayGuard
	)
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		productCache = cache.NewRedisCache(redisClient, "catalog:")
		replayGuard = cache.NewRedisReplayGuard(redisClient, "payment:return:")
		log.Info("Redis cache enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		productCache = cache.NewInMemoryCache()
		memGuard := cache.NewInMemoryReplayGuard()
		defer func() {
			_ = memGuard.Close()
		}()
		replayGuard = memGuard
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Payment gateway
	vnpayGateway, err := payment.NewVNPayAdapter(&payment.VNPayConfig{
		TmnCode:    cfg.VNPay.TmnCode,
		HashSecret: cfg.VNPay.HashSecret,
		PayURL:     cfg.VNPay.PayURL,
		ReturnURL:  cfg.VNPay.ReturnURL,
	})
	if err != nil {
		log.Fatal("Invalid VNPay configuration", zap.Error(err))
	}

	// Identity provider integration
	clerkClient := identityinfra.NewClerkClient(&cfg.Clerk)
	webhookVerifier, err := identityinfra.NewWebhookVerifier(cfg.Clerk.WebhookSecret)
	if err != nil {
		log.Fatal("Invalid webhook secret", zap.Error(err))
	}
	sessionVerifier := auth.NewSessionVerifier(cfg.Auth)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, productCache, cfg.Cache.ProductTTL)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	orderService := orderapp.NewOrderService(orderRepo, cartRepo, productRepo, txManager)
	userService := identityapp.NewUserService(userRepo, clerkClient, log)
	paymentService := paymentapp.NewPaymentService(
		orderRepo,
		vnpayGateway,
		replayGuard,
		txManager,
		cfg.VNPay.FrontendResultURL,
		cfg.Cache.ReplayGuardTTL,
		log,
	)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

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
	// 4. CORS - Handle cross-origin requests
	// 5. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Auth middleware shared by the protected route groups
	requireAuth := middleware.RequireAuth(sessionVerifier)
	requireAdmin := middleware.RequireAdmin(userService)

	// Register routes
	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(cfg.App.Name, version, databasePinger{db: db}))
	r.Register(handler.NewProductHandler(productService, requireAuth, requireAdmin))
	r.Register(handler.NewCartHandler(cartService, requireAuth))
	r.Register(handler.NewOrderHandler(orderService, requireAuth, requireAdmin))
	r.Register(handler.NewUserHandler(userService, requireAuth, requireAdmin))
	r.Register(handler.NewPaymentHandler(paymentService, requireAuth))
	r.Register(handler.NewWebhookHandler(userService, webhookVerifier, log))
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

// databasePinger adapts the GORM-backed database to the health check
// interface expected by the system handler.
type databasePinger struct {
	db *persistence.Database
}

func (p databasePinger) Ping(_ context.Context) error {
	return p.db.Ping()
}
