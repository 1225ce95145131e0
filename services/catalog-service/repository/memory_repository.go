package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

// DefaultMockLatency is the artificial delay applied to every mock operation.
const DefaultMockLatency = 500 * time.Millisecond

// MemoryRepository is the mock backend: a seeded in-process slice with a fixed delay
// in front of every call. Ids start after the seed and are never reused.
type MemoryRepository struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int64
	latency  time.Duration
	now      func() time.Time
}

type MemoryOption func(*MemoryRepository)

// WithLatency overrides the per-call delay; zero disables it.
func WithLatency(d time.Duration) MemoryOption {
	return func(m *MemoryRepository) { m.latency = d }
}

func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryRepository) { m.now = now }
}

// WithProducts replaces the seed data. The id counter continues after the highest id.
func WithProducts(products []models.Product) MemoryOption {
	return func(m *MemoryRepository) {
		m.products = append([]models.Product(nil), products...)
		m.nextID = 1
		for _, p := range products {
			if p.ID >= m.nextID {
				m.nextID = p.ID + 1
			}
		}
	}
}

func NewMemoryRepository(opts ...MemoryOption) *MemoryRepository {
	m := &MemoryRepository{
		products: SeedProducts(),
		nextID:   5,
		latency:  DefaultMockLatency,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryRepository) delay(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *MemoryRepository) indexOf(id int64) int {
	for i := range m.products {
		if m.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Product{}, m.products...), nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	p := m.products[i]
	return &p, nil
}

func (m *MemoryRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p := models.NewProduct(m.nextID, req, m.now())
	m.nextID++
	m.products = append(m.products, p)
	return &p, nil
}

func (m *MemoryRepository) Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrProductNotFound
	}
	req.Apply(&m.products[i], m.now())
	p := m.products[i]
	return &p, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int64) error {
	if err := m.delay(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrProductNotFound
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return nil
}

func (m *MemoryRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(category)
	out := []models.Product{}
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Category), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}
