package domain

import (
	"context"
	"errors"
)

// ErrProductNotFound is returned when no product matches the given id.
var ErrProductNotFound = errors.New("product not found")

// Product represents a sellable inventory item. The id is an opaque string
// derived from the creation timestamp. SKU carries no uniqueness constraint.
// Image is empty, a URL, or an embedded data URI.
type Product struct {
	ID         string   `json:"id" gorm:"primaryKey"`
	Name       string   `json:"name" gorm:"not null"`
	SKU        string   `json:"sku"`
	Price      float64  `json:"price" gorm:"not null"`
	Stock      int      `json:"stock" gorm:"not null;default:0"`
	Categories []string `json:"categories" gorm:"serializer:json"`
	Image      string   `json:"image" gorm:"type:text"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// InStock reports whether the product has remaining stock
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// HasCategory reports whether the product carries the given category
func (p *Product) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name       *string
	SKU        *string
	Price      *float64
	Stock      *int
	Categories *[]string
	Image      *string
}

// Apply merges the non-nil fields into the product
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Categories != nil {
		p.Categories = *patch.Categories
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*Product, error)
	Delete(ctx context.Context, id string) error
	// ReplaceAll rewrites the whole collection in a single write. Checkout
	// uses it to commit a batch of stock decrements without partial states.
	ReplaceAll(ctx context.Context, products []Product) error
	Count(ctx context.Context) (int64, error)
}
