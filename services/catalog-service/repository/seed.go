package repository

import (
	"time"

	"github.com/yashrajoria/product-catalog/services/catalog-service/models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// SeedProducts returns a fresh copy of the sample catalog used by the mock backend.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:          1,
			Name:        "iPhone 15 Pro",
			Description: "Latest Apple smartphone with advanced features",
			Price:       999.99,
			Category:    "Electronics",
			ImageURL:    "https://via.placeholder.com/300x200?text=iPhone+15+Pro",
			Stock:       25,
			IsActive:    true,
			CreatedAt:   day(2024, time.January, 15),
			UpdatedAt:   day(2024, time.January, 15),
		},
		{
			ID:          2,
			Name:        "Samsung Galaxy S24",
			Description: "High-performance Android smartphone",
			Price:       899.99,
			Category:    "Electronics",
			ImageURL:    "https://via.placeholder.com/300x200?text=Galaxy+S24",
			Stock:       18,
			IsActive:    true,
			CreatedAt:   day(2024, time.January, 20),
			UpdatedAt:   day(2024, time.January, 20),
		},
		{
			ID:          3,
			Name:        "MacBook Pro M3",
			Description: "Professional laptop for developers and creators",
			Price:       1999.99,
			Category:    "Computers",
			ImageURL:    "https://via.placeholder.com/300x200?text=MacBook+Pro",
			Stock:       12,
			IsActive:    true,
			CreatedAt:   day(2024, time.February, 1),
			UpdatedAt:   day(2024, time.February, 1),
		},
		{
			ID:          4,
			Name:        "Sony WH-1000XM5",
			Description: "Premium noise-canceling headphones",
			Price:       399.99,
			Category:    "Audio",
			ImageURL:    "https://via.placeholder.com/300x200?text=Sony+Headphones",
			Stock:       8,
			IsActive:    false,
			CreatedAt:   day(2024, time.January, 10),
			UpdatedAt:   day(2024, time.February, 15),
		},
	}
}
