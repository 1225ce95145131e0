package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_AssignsServerFields(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewProduct(7, CreateProductRequest{Name: "Lamp", Price: 25, Stock: 3}, now)

	assert.Equal(t, int64(7), p.ID)
	assert.True(t, p.IsActive)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestUpdateProductRequest_Apply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewProduct(1, CreateProductRequest{Name: "Lamp", Description: "desk", Price: 25, Stock: 3}, created)

	price := 30.0
	inactive := false
	later := created.Add(time.Hour)
	UpdateProductRequest{Price: &price, IsActive: &inactive}.Apply(&p, later)

	assert.Equal(t, 30.0, p.Price)
	assert.False(t, p.IsActive)
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, "desk", p.Description)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, later, p.UpdatedAt)
}

func TestUpdateProductRequest_IsEmpty(t *testing.T) {
	assert.True(t, UpdateProductRequest{}.IsEmpty())
	stock := 0
	assert.False(t, UpdateProductRequest{Stock: &stock}.IsEmpty())
}

func TestProduct_WireNames(t *testing.T) {
	raw, err := json.Marshal(Product{ID: 1, Name: "x", ImageURL: "http://img"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, k := range []string{"id", "name", "description", "price", "category", "imageUrl", "stock", "isActive", "createdAt", "updatedAt"} {
		assert.Contains(t, m, k)
	}
}
