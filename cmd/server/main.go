package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice_generator/internal/config"
	"invoice_generator/internal/handler"
	"invoice_generator/internal/logger"
	"invoice_generator/internal/middleware"
	"invoice_generator/internal/pdf"
	"invoice_generator/internal/repository"
	"invoice_generator/internal/service"
	"invoice_generator/internal/storage"
	"invoice_generator/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Info("No .env file found or error loading, relying on environment variables")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DB, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer dbPool.Close()

	// --- Migrations ---
	if err := config.Migrate(ctx, dbPool, log); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	// --- Artifact storage ---
	store, err := newArtifactStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up artifact storage")
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)
	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	generator := pdf.NewGenerator(pdf.NewRenderer(), store)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	invoiceRepo := repository.NewInvoiceRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, hasher, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, generator, log)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	healthHandler := handler.NewHealthHandler(dbPool)

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(authService)
	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginRateBurst)
	limiter.StartCleanup(ctx, time.Minute, 10*time.Minute)

	// --- Setup Gin Router ---
	router := gin.New()
	// Without trusted proxies ClientIP is the peer address, so X-Forwarded-For cannot dodge the login limiter.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.WithError(err).Fatal("Invalid TRUSTED_PROXIES")
	}
	router.Use(
		gin.RecoveryWithWriter(log.WriterLevel(logrus.ErrorLevel)),
		middleware.RequestLogger(log),
		middleware.Metrics(),
		middleware.CORS(),
	)

	// --- Register Routes ---
	authHandler.RegisterAuthRoutes(&router.RouterGroup, limiter.Handler())
	invoiceHandler.RegisterInvoiceRoutes(&router.RouterGroup, jwtAuthMW)
	healthHandler.RegisterHealthRoutes(&router.RouterGroup)

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.ServerPort).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("Server exiting")
}

func newArtifactStore(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (storage.Store, error) {
	switch cfg.ArtifactBackend {
	case config.ArtifactBackendS3:
		log.WithField("bucket", cfg.S3.Bucket).Info("Invoices will be stored in S3")
		return storage.NewS3Store(ctx, storage.S3Options{
			Bucket:          cfg.S3.Bucket,
			Prefix:          "invoices",
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	default:
		log.WithField("dir", cfg.ArtifactDir).Info("Invoices will be stored on local disk")
		return storage.NewLocalStore(cfg.ArtifactDir), nil
	}
}
