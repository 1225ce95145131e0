package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	awspkg "github.com/yashrajoria/product-catalog/pkg/aws"
	"github.com/yashrajoria/product-catalog/services/catalog-service/controllers"
	apperrors "github.com/yashrajoria/product-catalog/services/common/errors"
	"github.com/yashrajoria/product-catalog/services/common/middleware"
	"go.uber.org/zap"
)

// RegisterProductRoutes sets up the products resource and image uploads.
func RegisterProductRoutes(r gin.IRouter, pc *controllers.ProductController, ic *controllers.ImageController) {
	products := r.Group("/products")
	products.GET("", pc.GetProducts)
	products.POST("", pc.CreateProduct)
	products.GET("/:id", pc.GetProduct)
	products.PUT("/:id", pc.UpdateProduct)
	products.DELETE("/:id", pc.DeleteProduct)

	if ic != nil {
		products.POST("/images/presign", ic.PresignUpload)
	}
}

// RouterOptions carries the optional middleware the service wires in.
type RouterOptions struct {
	ServiceName    string
	Backend        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	RateLimiter    *middleware.RateLimiter
	Metrics        awspkg.MetricsRecorder
	// AllowOrigins enables CORS for the browser front-end when non-empty.
	AllowOrigins []string
}

// NewRouter builds the gin engine with the common middleware chain and all routes.
func NewRouter(opts RouterOptions, pc *controllers.ProductController, ic *controllers.ImageController) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.L()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(opts.Logger),
		middleware.MetricsMiddleware(opts.Metrics, opts.ServiceName),
		middleware.SecurityHeaders(),
	)
	if len(opts.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter))
	}
	r.Use(
		middleware.Timeout(opts.RequestTimeout),
		apperrors.ErrorMiddleware(),
	)

	r.GET("/health", controllers.Health(opts.ServiceName, opts.Backend))
	RegisterProductRoutes(r, pc, ic)
	return r
}
