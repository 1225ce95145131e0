package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	awspkg "github.com/yashrajoria/product-catalog/pkg/aws"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
	"github.com/yashrajoria/product-catalog/services/catalog-service/repository"
	apperrors "github.com/yashrajoria/product-catalog/services/common/errors"
	"github.com/yashrajoria/product-catalog/services/common/logger"
	"go.uber.org/zap"
)

const (
	msgNameRequired  = "Product name is required"
	msgPricePositive = "Price must be greater than 0"
	msgStockNegative = "Stock cannot be negative"
	msgNotFound      = "Product not found"
)

// ProductService holds the catalog use cases on top of a ProductRepository.
type ProductService struct {
	repo     repository.ProductRepository
	validate *validator.Validate
	events   EventPublisher
	metrics  awspkg.MetricsRecorder
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*ProductService)

func WithEventPublisher(p EventPublisher) Option {
	return func(s *ProductService) {
		// Guard against a typed nil such as (*SNSEventPublisher)(nil).
		if sp, ok := p.(*SNSEventPublisher); ok && sp == nil {
			return
		}
		s.events = p
	}
}

func WithMetrics(m awspkg.MetricsRecorder) Option {
	return func(s *ProductService) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *ProductService) { s.logger = l }
}

func NewProductService(repo repository.ProductRepository, opts ...Option) *ProductService {
	v := validator.New()
	v.SetTagName("binding")
	s := &ProductService{
		repo:     repo,
		validate: v,
		logger:   zap.L(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ProductService) GetProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.internal(ctx, "Failed to fetch products", err)
	}
	return products, nil
}

// GetProductByID returns (nil, nil) when the product does not exist.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.internal(ctx, "Failed to fetch product", err)
	}
	return p, nil
}

func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.repo.GetByCategory(ctx, category)
	if err != nil {
		return nil, s.internal(ctx, "Failed to fetch products", err)
	}
	return products, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.ValidateCreate(req); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, s.internal(ctx, "Failed to create product", err)
	}

	logger.Info(ctx, "Product created", zap.Int64("product_id", p.ID), zap.String("name", p.Name))
	s.publish(ctx, models.EventProductCreated, p.ID, p)
	s.count(ctx, awspkg.MetricProductsCreated)
	return p, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := s.ValidateUpdate(req); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, req)
	if errors.Is(err, repository.ErrProductNotFound) {
		return nil, apperrors.NotFound(msgNotFound, err)
	}
	if err != nil {
		return nil, s.internal(ctx, "Failed to update product", err)
	}

	logger.Info(ctx, "Product updated", zap.Int64("product_id", id))
	s.publish(ctx, models.EventProductUpdated, id, p)
	s.count(ctx, awspkg.MetricProductsUpdated)
	return p, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return apperrors.NotFound(msgNotFound, err)
	}
	if err != nil {
		return s.internal(ctx, "Failed to delete product", err)
	}

	logger.Info(ctx, "Product deleted", zap.Int64("product_id", id))
	s.publish(ctx, models.EventProductDeleted, id, nil)
	s.count(ctx, awspkg.MetricProductsDeleted)
	return nil
}

// ValidateCreate applies the create form rules: a non-blank name, a positive
// price and a non-negative stock.
func (s *ProductService) ValidateCreate(req models.CreateProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.BadRequest(fieldMessage(verrs[0].Field()), err)
		}
		return apperrors.BadRequest("Invalid product", err)
	}
	return nil
}

// ValidateUpdate applies the same rules to the fields present in req.
func (s *ProductService) ValidateUpdate(req models.UpdateProductRequest) error {
	if req.Name != nil {
		if err := s.validate.Var(strings.TrimSpace(*req.Name), "required"); err != nil {
			return apperrors.BadRequest(msgNameRequired, err)
		}
	}
	if req.Price != nil {
		if err := s.validate.Var(*req.Price, "gt=0"); err != nil {
			return apperrors.BadRequest(msgPricePositive, err)
		}
	}
	if req.Stock != nil {
		if err := s.validate.Var(*req.Stock, "gte=0"); err != nil {
			return apperrors.BadRequest(msgStockNegative, err)
		}
	}
	return nil
}

func fieldMessage(field string) string {
	switch field {
	case "Name":
		return msgNameRequired
	case "Price":
		return msgPricePositive
	case "Stock":
		return msgStockNegative
	default:
		return fmt.Sprintf("Invalid value for %s", field)
	}
}

func (s *ProductService) internal(ctx context.Context, message string, err error) error {
	s.logger.Error(message, zap.String("request_id", logger.RequestID(ctx)), zap.Error(err))
	return apperrors.Internal(message, err)
}

// publish is best-effort: failures are logged and never returned.
func (s *ProductService) publish(ctx context.Context, eventType string, id int64, p *models.Product) {
	if s.events == nil {
		return
	}
	event := models.ProductEvent{
		EventType: eventType,
		ProductID: id,
		Product:   p,
		Timestamp: s.now().UTC(),
	}
	if err := s.events.PublishProductEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish product event",
			zap.String("event_type", eventType),
			zap.Int64("product_id", id),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Published product event", zap.String("event_type", eventType), zap.Int64("product_id", id))
}

func (s *ProductService) count(ctx context.Context, metric string) {
	if s.metrics == nil || !s.metrics.IsEnabled() {
		return
	}
	go func() {
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = s.metrics.RecordCount(mctx, metric, map[string]string{"Service": "catalog-service"})
	}()
}
