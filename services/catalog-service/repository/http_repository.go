package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/yashrajoria/product-catalog/services/catalog-service/clients"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

// RestDoer is the subset of clients.RestClient the HTTP backend uses.
type RestDoer interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
}

// HTTPRepository maps the repository contract onto a REST products resource.
type HTTPRepository struct {
	client RestDoer
}

func NewHTTPRepository(client RestDoer) *HTTPRepository {
	return &HTTPRepository{client: client}
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}

func (r *HTTPRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := r.client.Get(ctx, "/products", &out); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return nonNil(out), nil
}

// GetByID treats only an upstream 404 as absence; every other failure is returned.
func (r *HTTPRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var out models.Product
	if err := r.client.Get(ctx, productPath(id), &out); err != nil {
		if clients.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &out, nil
}

func (r *HTTPRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	var out models.Product
	if err := r.client.Post(ctx, "/products", req, &out); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &out, nil
}

func (r *HTTPRepository) Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	var out models.Product
	if err := r.client.Put(ctx, productPath(id), req, &out); err != nil {
		return nil, mapNotFound(fmt.Sprintf("update product %d", id), err)
	}
	return &out, nil
}

func (r *HTTPRepository) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, productPath(id), nil); err != nil {
		return mapNotFound(fmt.Sprintf("delete product %d", id), err)
	}
	return nil
}

func (r *HTTPRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var out []models.Product
	path := "/products?category=" + url.QueryEscape(category)
	if err := r.client.Get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return nonNil(out), nil
}

func mapNotFound(op string, err error) error {
	if clients.IsNotFound(err) {
		return fmt.Errorf("%s: %w", op, errors.Join(ErrProductNotFound, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
