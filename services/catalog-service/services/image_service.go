package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
	apperrors "github.com/yashrajoria/product-catalog/services/common/errors"
)

const DefaultPresignExpiry = 15 * time.Minute

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// Presigner produces presigned S3 PUT URLs.
type Presigner interface {
	PresignPut(ctx context.Context, bucket, key, contentType string, expires time.Duration) (string, error)
}

// ImageConfig locates the bucket product images are uploaded to.
type ImageConfig struct {
	Bucket    string
	Prefix    string
	CDNDomain string
	// Endpoint is the S3 endpoint override (LocalStack); it selects path-style public URLs.
	Endpoint string
	Expires  time.Duration
}

type ImageService struct {
	presigner Presigner
	cfg       ImageConfig
}

func NewImageService(presigner Presigner, cfg ImageConfig) *ImageService {
	if cfg.Expires <= 0 {
		cfg.Expires = DefaultPresignExpiry
	}
	return &ImageService{presigner: presigner, cfg: cfg}
}

// Enabled reports whether uploads are configured.
func (s *ImageService) Enabled() bool {
	return s != nil && s.presigner != nil && s.cfg.Bucket != ""
}

// PresignUpload returns a presigned PUT URL for a new product image and the
// public URL the product's imageUrl should point at once the upload succeeds.
func (s *ImageService) PresignUpload(ctx context.Context, filename, contentType string) (*models.PresignResponse, error) {
	if !s.Enabled() {
		return nil, apperrors.ServiceUnavailable("Image uploads are not configured", nil)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if contentType == "" {
		contentType = extensionTypes[ext]
	}
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return nil, apperrors.BadRequest("Invalid image type. Allowed: jpeg, jpg, png, webp, gif", nil)
	}

	key := fmt.Sprintf("%sproduct_img_%s%s", s.cfg.Prefix, uuid.NewString(), ext)
	uploadURL, err := s.presigner.PresignPut(ctx, s.cfg.Bucket, key, contentType, s.cfg.Expires)
	if err != nil {
		return nil, apperrors.Internal("Failed to generate upload URL", err)
	}

	return &models.PresignResponse{
		UploadURL: uploadURL,
		Key:       key,
		ImageURL:  s.publicURL(key),
	}, nil
}

func (s *ImageService) publicURL(key string) string {
	switch {
	case s.cfg.CDNDomain != "":
		return fmt.Sprintf("https://%s/%s", strings.TrimRight(s.cfg.CDNDomain, "/"), key)
	case s.cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.Bucket, key)
	}
}
