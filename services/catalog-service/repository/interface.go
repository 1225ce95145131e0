package repository

import (
	"context"
	"errors"

	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

// ErrProductNotFound is returned by Update and Delete when the id does not exist.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the storage contract every catalog backend implements.
// GetByID reports a missing product as (nil, nil), never as an error.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	Update(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	// GetByCategory matches category as a case-insensitive substring.
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
}
