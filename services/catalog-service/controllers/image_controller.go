package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
	apperrors "github.com/yashrajoria/product-catalog/services/common/errors"
)

type ImageService interface {
	PresignUpload(ctx context.Context, filename, contentType string) (*models.PresignResponse, error)
}

type ImageController struct {
	service ImageService
}

func NewImageController(service ImageService) *ImageController {
	return &ImageController{service: service}
}

// PresignUpload handles POST /products/images/presign.
func (ic *ImageController) PresignUpload(c *gin.Context) {
	var req models.PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest("filename is required", err))
		return
	}

	resp, err := ic.service.PresignUpload(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
