package repository

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, _ := strconv.ParseInt(s.data[key], 10, 64)
	n++
	s.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

type countingRepo struct {
	ProductRepository
	getAll, getByID, byCategory int
}

func (c *countingRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	c.getAll++
	return c.ProductRepository.GetAll(ctx)
}

func (c *countingRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	c.getByID++
	return c.ProductRepository.GetByID(ctx, id)
}

func (c *countingRepo) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	c.byCategory++
	return c.ProductRepository.GetByCategory(ctx, category)
}

// interleavedRepo runs onLoad once, after a GetByID has read its row but before
// it returns, to replay a mutation landing in the middle of a cache fill.
type interleavedRepo struct {
	ProductRepository
	onLoad func()
}

func (r *interleavedRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := r.ProductRepository.GetByID(ctx, id)
	if hook := r.onLoad; hook != nil {
		r.onLoad = nil
		hook()
	}
	return p, err
}

func newTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:       "localhost:0",
		MaxRetries: -1,
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
	})
}

func TestCachedRepository_ListHitAndInvalidate(t *testing.T) {
	ctx := context.Background()
	backend := &countingRepo{ProductRepository: newTestMemory()}
	repo := newCachedRepository(backend, newMemStore(), time.Minute)

	first, err := repo.GetAll(ctx)
	require.NoError(t, err)
	second, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.getAll)
	assert.Len(t, second, len(first))

	_, err = repo.Create(ctx, models.CreateProductRequest{Name: "Test", Price: 10, Stock: 1})
	require.NoError(t, err)

	third, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.getAll)
	assert.Len(t, third, 5)
}

func TestCachedRepository_CategoryKeysAreCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	backend := &countingRepo{ProductRepository: newTestMemory()}
	repo := newCachedRepository(backend, newMemStore(), time.Minute)

	_, err := repo.GetByCategory(ctx, "Electro")
	require.NoError(t, err)
	products, err := repo.GetByCategory(ctx, "electro")
	require.NoError(t, err)

	assert.Equal(t, 1, backend.byCategory)
	assert.Len(t, products, 2)
}

func TestCachedRepository_DetailInvalidatedOnUpdate(t *testing.T) {
	ctx := context.Background()
	backend := &countingRepo{ProductRepository: newTestMemory()}
	repo := newCachedRepository(backend, newMemStore(), time.Minute)

	_, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.getByID)

	name := "iPhone 15 Pro Max"
	_, err = repo.Update(ctx, 1, models.UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, name, p.Name)
	assert.Equal(t, 2, backend.getByID)
}

func TestCachedRepository_ConcurrentUpdateDoesNotCacheStaleRow(t *testing.T) {
	ctx := context.Background()
	backend := &interleavedRepo{ProductRepository: newTestMemory()}
	repo := newCachedRepository(backend, newMemStore(), time.Minute)

	name := "iPhone 15 Pro Max"
	backend.onLoad = func() {
		_, err := repo.Update(ctx, 1, models.UpdateProductRequest{Name: &name})
		require.NoError(t, err)
	}

	stale, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "iPhone 15 Pro", stale.Name)

	fresh, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, name, fresh.Name)
}

func TestCachedRepository_MissingIsNotCached(t *testing.T) {
	ctx := context.Background()
	backend := &countingRepo{ProductRepository: newTestMemory()}
	repo := newCachedRepository(backend, newMemStore(), time.Minute)

	for i := 0; i < 2; i++ {
		p, err := repo.GetByID(ctx, 99)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	assert.Equal(t, 2, backend.getByID)
}

func TestCachedRepository_DeletePropagatesNotFound(t *testing.T) {
	repo := newCachedRepository(newTestMemory(), newMemStore(), time.Minute)
	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrProductNotFound)
}

func TestCachedRepository_FallsThroughWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	backend := &countingRepo{ProductRepository: newTestMemory()}
	repo := NewCachedRepository(backend, newTestRedisClient(), time.Minute)

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)

	p, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "MacBook Pro M3", p.Name)

	created, err := repo.Create(ctx, models.CreateProductRequest{Name: "Test", Price: 10})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, created.ID))

	assert.Equal(t, 1, backend.getAll)
	assert.Equal(t, 1, backend.getByID)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "product:detail:3:7", detailKey(3, 7))
	assert.Equal(t, "products:v:3:all", listKey(3, ""))
	assert.Equal(t, "products:v:3:cat:audio", listKey(3, "Audio"))
}
