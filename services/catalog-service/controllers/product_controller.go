package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
	apperrors "github.com/yashrajoria/product-catalog/services/common/errors"
)

// ProductService is what the REST handlers need from the use-case layer.
type ProductService interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ValidateCreate(req models.CreateProductRequest) error
}

type ProductController struct {
	service ProductService
}

func NewProductController(service ProductService) *ProductController {
	return &ProductController{service: service}
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.BadRequest("Invalid product ID", err)
	}
	return id, nil
}

// GetProducts handles GET /products and GET /products?category=.
func (pc *ProductController) GetProducts(c *gin.Context) {
	var (
		products []models.Product
		err      error
	)
	if category, ok := c.GetQuery("category"); ok {
		products, err = pc.service.GetProductsByCategory(c.Request.Context(), category)
	} else {
		products, err = pc.service.GetProducts(c.Request.Context())
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	product, err := pc.service.GetProductByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if product == nil {
		_ = c.Error(apperrors.NotFound("Product not found", nil))
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			if verr := pc.service.ValidateCreate(req); verr != nil {
				_ = c.Error(verr)
				return
			}
		}
		_ = c.Error(apperrors.BadRequest("Invalid request body", err))
		return
	}

	product, err := pc.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id with a partial body.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("Invalid request body", err))
		return
	}

	product, err := pc.service.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := pc.service.DeleteProduct(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
