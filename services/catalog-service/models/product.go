package models

import "time"

// Product is a catalog entry. The same struct is stored by every backend, so it
// carries tags for JSON, GORM and BSON.
type Product struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement" bson:"_id"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null" bson:"name"`
	Description string    `json:"description" gorm:"type:text" bson:"description"`
	Price       float64   `json:"price" gorm:"not null" bson:"price"`
	Category    string    `json:"category" gorm:"type:varchar(128);index" bson:"category"`
	ImageURL    string    `json:"imageUrl,omitempty" gorm:"type:text" bson:"imageUrl,omitempty"`
	Stock       int       `json:"stock" gorm:"not null;default:0" bson:"stock"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true" bson:"isActive"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime:false" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime:false" bson:"updatedAt"`
}

// CreateProductRequest is the payload for creating a product. The backend assigns
// the id, both timestamps and IsActive.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gt=0"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

// UpdateProductRequest is a partial update; nil fields keep their stored value.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// NewProduct builds the record a backend stores for req.
func NewProduct(id int64, req CreateProductRequest, now time.Time) Product {
	return Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply copies the supplied fields onto p and stamps UpdatedAt.
func (r UpdateProductRequest) Apply(p *Product, now time.Time) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Category != nil {
		p.Category = *r.Category
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	p.UpdatedAt = now
}

// IsEmpty reports whether no field was supplied.
func (r UpdateProductRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil && r.Category == nil &&
		r.ImageURL == nil && r.Stock == nil && r.IsActive == nil
}

// Product event types published to SNS.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published after a successful mutation.
type ProductEvent struct {
	EventType string    `json:"event_type"`
	ProductID int64     `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PresignRequest asks for an upload URL for a product image.
type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType"`
}

// PresignResponse carries the presigned PUT URL and the public URL to store in imageUrl.
type PresignResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ImageURL  string `json:"imageUrl"`
}
