package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	awspkg "github.com/yashrajoria/product-catalog/pkg/aws"
	ddbpkg "github.com/yashrajoria/product-catalog/pkg/dynamodb"
	"github.com/yashrajoria/product-catalog/services/catalog-service/clients"
	"github.com/yashrajoria/product-catalog/services/catalog-service/database"
	"go.uber.org/zap"
)

// Backend names accepted in Config.Backend.
const (
	BackendMock     = "mock"
	BackendHTTP     = "http"
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config selects and parameterises the storage backend.
type Config struct {
	UseMockData bool
	Backend     string

	MockLatency time.Duration

	APIBaseURL  string
	HTTPTimeout time.Duration

	DynamoTable string
	PostgresDSN string
	MongoURL    string
	MongoDB     string

	RedisURL string
	CacheTTL time.Duration
}

// Backend is the repository picked at start-up plus the handles it owns.
type Backend struct {
	Repository ProductRepository
	Name       string
	Cached     bool

	closers []func(context.Context) error
}

// Close releases every connection the backend opened.
func (b *Backend) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolveBackendName returns the effective backend for cfg, or an error for an unknown name.
func ResolveBackendName(cfg Config) (string, error) {
	if cfg.UseMockData {
		return BackendMock, nil
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if name == "" {
		name = BackendHTTP
	}
	switch name {
	case BackendMock, BackendHTTP, BackendDynamoDB, BackendPostgres, BackendMongo:
		return name, nil
	}
	return "", fmt.Errorf("unknown CATALOG_BACKEND %q", cfg.Backend)
}

// NewProductRepository builds the single repository the process will use.
// It is called once by the composition root and the choice never changes afterwards.
func NewProductRepository(ctx context.Context, cfg Config) (*Backend, error) {
	name, err := ResolveBackendName(cfg)
	if err != nil {
		return nil, err
	}

	b := &Backend{Name: name}
	switch name {
	case BackendMock:
		b.Repository = NewMemoryRepository(WithLatency(cfg.MockLatency))

	case BackendHTTP:
		b.Repository = NewHTTPRepository(clients.NewRestClient(cfg.APIBaseURL, cfg.HTTPTimeout))

	case BackendDynamoDB:
		awsCfg, err := awspkg.LoadAWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		client := ddbpkg.NewClientFromConfig(awsCfg)
		if err := ddbpkg.EnsureTable(ctx, client, cfg.DynamoTable, "id"); err != nil {
			return nil, err
		}
		b.Repository = NewDynamoAdapter(client, cfg.DynamoTable)

	case BackendPostgres:
		db, err := database.ConnectPostgres(cfg.PostgresDSN, 2*time.Second)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return database.ClosePostgres(db) })
		repo := NewGormRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = b.Close(ctx)
			return nil, fmt.Errorf("migrate products table: %w", err)
		}
		b.Repository = repo

	case BackendMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func(ctx context.Context) error { return database.DisconnectMongo(ctx, client) })
		repo := NewMongoRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			zap.L().Warn("failed to ensure product indexes", zap.Error(err))
		}
		b.Repository = repo
	}

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			_ = b.Close(ctx)
			return nil, err
		}
		b.closers = append(b.closers, func(context.Context) error { return client.Close() })
		b.Repository = NewCachedRepository(b.Repository, client, cfg.CacheTTL)
		b.Cached = true
	}

	zap.L().Info("Product repository ready", zap.String("backend", b.Name), zap.Bool("cached", b.Cached))
	return b, nil
}
