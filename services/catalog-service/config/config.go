package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	awspkg "github.com/yashrajoria/product-catalog/pkg/aws"
	"github.com/yashrajoria/product-catalog/services/catalog-service/repository"
	"go.uber.org/zap"
)

// Secret names read when AWS_USE_SECRETS=true.
const (
	SecretPostgresDSN = "catalog/POSTGRES_DSN"
	SecretMongoURL    = "catalog/MONGO_URL"
)

// Config holds every environment variable the catalog service and CLI read.
type Config struct {
	Port   string
	AppEnv string

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

	ProductTopicARN  string
	S3Bucket         string
	S3Prefix         string
	S3Endpoint       string
	CloudFrontDomain string

	UseSecrets        bool
	CloudWatchEnabled bool

	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	AllowOrigins   []string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		Port:   getEnv("PORT", "8082"),
		AppEnv: getEnv("APP_ENV", "development"),

		UseMockData: p.getEnvBool("USE_MOCK_DATA", true),
		Backend:     getEnv("CATALOG_BACKEND", repository.BackendHTTP),
		MockLatency: p.getEnvDuration("MOCK_LATENCY", repository.DefaultMockLatency),

		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:3000/api"),
		HTTPTimeout: p.getEnvDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),

		DynamoTable: getEnv("DDB_TABLE_PRODUCTS", "Products"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		MongoURL:    os.Getenv("MONGO_URL"),
		MongoDB:     getEnv("MONGO_DB", "catalog"),

		RedisURL: os.Getenv("REDIS_URL"),
		CacheTTL: p.getEnvDuration("CACHE_TTL", repository.DefaultCacheTTL),

		ProductTopicARN:  os.Getenv("PRODUCT_SNS_TOPIC_ARN"),
		S3Bucket:         os.Getenv("AWS_S3_BUCKET"),
		S3Prefix:         getEnv("AWS_S3_PREFIX", "products/"),
		S3Endpoint:       getEnv("AWS_S3_ENDPOINT", os.Getenv("AWS_ENDPOINT")),
		CloudFrontDomain: os.Getenv("AWS_CLOUDFRONT_DOMAIN"),

		UseSecrets:        p.getEnvBool("AWS_USE_SECRETS", false),
		CloudWatchEnabled: p.getEnvBool("CLOUDWATCH_ENABLED", false),

		RequestTimeout: p.getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RateLimitRPS:   p.getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: p.getEnvInt("RATE_LIMIT_BURST", 40),
		AllowOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}
	if p.err != nil {
		return nil, p.err
	}
	if _, err := repository.ResolveBackendName(cfg.RepositoryConfig()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplySecrets overrides the database connection strings from Secrets Manager.
// Missing or failing secrets keep the environment value.
func (c *Config) ApplySecrets(ctx context.Context, sm awspkg.SecretGetter) {
	if !c.UseSecrets || sm == nil {
		return
	}
	override := func(name string, target *string) {
		v, err := sm.GetSecret(ctx, name)
		if err != nil {
			zap.L().Warn("Secret lookup failed, using environment value", zap.String("secret", name), zap.Error(err))
			return
		}
		if v != "" {
			*target = v
		}
	}
	override(SecretPostgresDSN, &c.PostgresDSN)
	override(SecretMongoURL, &c.MongoURL)
}

// RepositoryConfig returns the backend selection for repository.NewProductRepository.
func (c *Config) RepositoryConfig() repository.Config {
	return repository.Config{
		UseMockData: c.UseMockData,
		Backend:     c.Backend,
		MockLatency: c.MockLatency,
		APIBaseURL:  c.APIBaseURL,
		HTTPTimeout: c.HTTPTimeout,
		DynamoTable: c.DynamoTable,
		PostgresDSN: c.PostgresDSN,
		MongoURL:    c.MongoURL,
		MongoDB:     c.MongoDB,
		RedisURL:    c.RedisURL,
		CacheTTL:    c.CacheTTL,
	}
}

// NeedsAWS reports whether any configured feature talks to AWS.
func (c *Config) NeedsAWS() bool {
	backend, _ := repository.ResolveBackendName(c.RepositoryConfig())
	return backend == repository.BackendDynamoDB || c.UseSecrets || c.CloudWatchEnabled ||
		c.ProductTopicARN != "" || c.S3Bucket != ""
}

// Helper to get an environment variable or return a default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser keeps the first malformed variable so Load can report it.
type parser struct {
	err error
}

func (p *parser) lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	return value, ok && value != ""
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}

func (p *parser) getEnvBool(key string, fallback bool) bool {
	value, ok := p.lookup(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, err)
		return fallback
	}
	return b
}

func (p *parser) getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := p.lookup(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, err)
		return fallback
	}
	return d
}

func (p *parser) getEnvInt(key string, fallback int) int {
	value, ok := p.lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, err)
		return fallback
	}
	return n
}

func (p *parser) getEnvFloat(key string, fallback float64) float64 {
	value, ok := p.lookup(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value, err)
		return fallback
	}
	return f
}
