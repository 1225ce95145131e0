package state

import (
	"context"
	"sync"

	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
	apperrors "github.com/yashrajoria/product-catalog/services/common/errors"
)

const fallbackError = "An error occurred"

// ProductService is the subset of services.ProductService the state holder drives.
type ProductService interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Snapshot is a point-in-time copy of the client state.
type Snapshot struct {
	Products []models.Product
	Loading  bool
	Error    string
}

// Listener is called with a fresh snapshot after every state change.
type Listener func(Snapshot)

// ProductsState keeps the client-side product list in sync with the service.
// Mutations update the local list from the service response instead of re-fetching.
type ProductsState struct {
	service ProductService

	mu        sync.RWMutex
	products  []models.Product
	loading   bool
	err       string
	listeners []Listener
}

func NewProductsState(service ProductService) *ProductsState {
	return &ProductsState{service: service, products: []models.Product{}}
}

// Subscribe registers l and returns a function that removes it.
func (s *ProductsState) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, l)
	idx := len(s.listeners) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.listeners) {
			s.listeners[idx] = nil
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *ProductsState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *ProductsState) snapshotLocked() Snapshot {
	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return Snapshot{Products: products, Loading: s.loading, Error: s.err}
}

// Mount performs the initial fetch.
func (s *ProductsState) Mount(ctx context.Context) {
	s.Refresh(ctx)
}

// Refresh replaces the list with the service's current products.
func (s *ProductsState) Refresh(ctx context.Context) {
	s.begin()
	products, err := s.service.GetProducts(ctx)
	s.finish(err, func() {
		s.products = append([]models.Product{}, products...)
	})
}

// GetProductByID fetches one product without touching the list or the loading flag.
// It returns nil when the call fails or the product does not exist.
func (s *ProductsState) GetProductByID(ctx context.Context, id int64) *models.Product {
	s.update(func() { s.err = "" })

	p, err := s.service.GetProductByID(ctx, id)
	if err != nil {
		s.update(func() { s.err = errorMessage(err) })
		return nil
	}
	return p
}

// CreateProduct appends the created product to the list.
func (s *ProductsState) CreateProduct(ctx context.Context, req models.CreateProductRequest) {
	s.begin()
	p, err := s.service.CreateProduct(ctx, req)
	s.finish(err, func() {
		s.products = append(s.products, *p)
	})
}

// UpdateProduct replaces the matching entry with the service's response.
func (s *ProductsState) UpdateProduct(ctx context.Context, id int64, req models.UpdateProductRequest) {
	s.begin()
	p, err := s.service.UpdateProduct(ctx, id, req)
	s.finish(err, func() {
		for i := range s.products {
			if s.products[i].ID == id {
				s.products[i] = *p
			}
		}
	})
}

// DeleteProduct removes the product from the list.
func (s *ProductsState) DeleteProduct(ctx context.Context, id int64) {
	s.begin()
	err := s.service.DeleteProduct(ctx, id)
	s.finish(err, func() {
		kept := s.products[:0:0]
		for _, p := range s.products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.products = kept
	})
}

func (s *ProductsState) begin() {
	s.update(func() {
		s.loading = true
		s.err = ""
	})
}

// finish applies onSuccess or records err, then clears the loading flag.
func (s *ProductsState) finish(err error, onSuccess func()) {
	s.update(func() {
		if err != nil {
			s.err = errorMessage(err)
		} else {
			onSuccess()
		}
		s.loading = false
	})
}

func (s *ProductsState) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		if l != nil {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func errorMessage(err error) string {
	if msg := apperrors.Message(err); msg != "" {
		return msg
	}
	return fallbackError
}
