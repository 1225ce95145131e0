package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	awspkg "github.com/yashrajoria/product-catalog/pkg/aws"
	"github.com/yashrajoria/product-catalog/services/catalog-service/config"
	"github.com/yashrajoria/product-catalog/services/catalog-service/controllers"
	"github.com/yashrajoria/product-catalog/services/catalog-service/repository"
	"github.com/yashrajoria/product-catalog/services/catalog-service/routes"
	"github.com/yashrajoria/product-catalog/services/catalog-service/services"
	"github.com/yashrajoria/product-catalog/services/common/logger"
	"github.com/yashrajoria/product-catalog/services/common/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceName = "catalog-service"

func main() {
	// --- 1. Configuration & logging ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var awsCfg sdkaws.Config
	hasAWS := false
	if cfg.NeedsAWS() {
		if awsCfg, err = awspkg.LoadAWSConfig(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load AWS config: %v\n", err)
		} else {
			hasAWS = true
		}
	}

	if hasAWS && cfg.CloudWatchEnabled {
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, serviceName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "CloudWatch Logs init failed: %v\n", err)
			logger.Initialize(cfg.AppEnv)
		} else {
			logger.InitializeWithWriter(cfg.AppEnv, cwLogs)
		}
	} else {
		logger.Initialize(cfg.AppEnv)
	}
	defer logger.Log.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if hasAWS && cfg.UseSecrets {
		cfg.ApplySecrets(ctx, awspkg.NewSecretsClient(awsCfg))
	}

	// --- 2. Backend selection (once per process) ---
	backend, err := repository.NewProductRepository(ctx, cfg.RepositoryConfig())
	if err != nil {
		logger.Log.Fatal("Failed to initialize product repository", zap.Error(err))
	}

	// --- 3. Dependency injection ---
	opts := []services.Option{services.WithLogger(logger.Log)}
	var metrics awspkg.MetricsRecorder
	var presigner services.Presigner
	if hasAWS {
		if cfg.CloudWatchEnabled {
			metrics = awspkg.NewMetricsClient(awsCfg)
			opts = append(opts, services.WithMetrics(metrics))
		}
		if cfg.ProductTopicARN != "" {
			opts = append(opts, services.WithEventPublisher(
				services.NewSNSEventPublisher(awspkg.NewSNSClient(awsCfg), cfg.ProductTopicARN),
			))
		}
		if cfg.S3Bucket != "" {
			presigner = awspkg.NewPresigner(awspkg.NewS3Client(awsCfg))
		}
	}

	productService := services.NewProductService(backend.Repository, opts...)
	imageService := services.NewImageService(presigner, services.ImageConfig{
		Bucket:    cfg.S3Bucket,
		Prefix:    cfg.S3Prefix,
		CDNDomain: cfg.CloudFrontDomain,
		Endpoint:  cfg.S3Endpoint,
	})

	productController := controllers.NewProductController(productService)
	imageController := controllers.NewImageController(imageService)

	// --- 4. HTTP server & middleware ---
	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, 3*time.Minute)
	stopSweep := make(chan struct{})
	go limiter.Run(stopSweep)

	r := routes.NewRouter(routes.RouterOptions{
		ServiceName:    serviceName,
		Backend:        backend.Name,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger.Log,
		RateLimiter:    limiter,
		Metrics:        metrics,
		AllowOrigins:   cfg.AllowOrigins,
	}, productController, imageController)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Catalog Service starting",
			zap.String("port", cfg.Port),
			zap.String("backend", backend.Name),
			zap.Bool("cached", backend.Cached),
			zap.Bool("images", imageService.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- 5. Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down Catalog Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	close(stopSweep)

	if err := backend.Close(shutdownCtx); err != nil {
		logger.Log.Error("Failed to close product backend", zap.Error(err))
	}

	logger.Log.Info("Catalog Service stopped gracefully")
}
