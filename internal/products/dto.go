package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
)

// ProductDTO is the catalog payload returned to admin and storefront clients.
type ProductDTO struct {
	ID             uuid.UUID             `json:"id"`
	SKU            string                `json:"sku"`
	Name           string                `json:"name"`
	Description    *string               `json:"description,omitempty"`
	Category       enums.ProductCategory `json:"category"`
	Material       *string               `json:"material,omitempty"`
	Price          decimal.Decimal       `json:"price"`
	CompareAtPrice *decimal.Decimal      `json:"compareAtPrice,omitempty"`
	StockQuantity  int                   `json:"stockQuantity"`
	InStock        bool                  `json:"inStock"`
	IsActive       bool                  `json:"isActive"`
	IsFeatured     bool                  `json:"isFeatured"`
	Images         []string              `json:"images"`
	Specifications map[string]string     `json:"specifications"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

func NewProductDTO(p *models.Product) *ProductDTO {
	images := append([]string{}, p.Images...)
	specs := make(map[string]string, len(p.Specifications))
	for k, v := range p.Specifications {
		specs[k] = v
	}
	return &ProductDTO{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Material:       p.Material,
		Price:          p.Price,
		CompareAtPrice: p.CompareAtPrice,
		StockQuantity:  p.StockQuantity,
		InStock:        p.StockQuantity > 0,
		IsActive:       p.IsActive,
		IsFeatured:     p.IsFeatured,
		Images:         images,
		Specifications: specs,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU            string                `json:"sku" validate:"required,max=64"`
	Name           string                `json:"name" validate:"required,max=200"`
	Description    *string               `json:"description" validate:"omitempty,max=5000"`
	Category       enums.ProductCategory `json:"category" validate:"required"`
	Material       *string               `json:"material" validate:"omitempty,max=120"`
	Price          decimal.Decimal       `json:"price" validate:"gte=0"`
	CompareAtPrice *decimal.Decimal      `json:"compareAtPrice"`
	StockQuantity  int                   `json:"stockQuantity" validate:"gte=0"`
	IsActive       *bool                 `json:"isActive"`
	IsFeatured     bool                  `json:"isFeatured"`
	Images         []string              `json:"images" validate:"omitempty,max=20,dive,url"`
	Specifications map[string]string     `json:"specifications"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU            *string                `json:"sku" validate:"omitempty,min=1,max=64"`
	Name           *string                `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string                `json:"description" validate:"omitempty,max=5000"`
	Category       *enums.ProductCategory `json:"category"`
	Material       *string                `json:"material" validate:"omitempty,max=120"`
	Price          *decimal.Decimal       `json:"price"`
	CompareAtPrice *decimal.Decimal       `json:"compareAtPrice"`
	StockQuantity  *int                   `json:"stockQuantity" validate:"omitempty,gte=0"`
	IsActive       *bool                  `json:"isActive"`
	IsFeatured     *bool                  `json:"isFeatured"`
	Images         *[]string              `json:"images" validate:"omitempty,max=20,dive,url"`
	Specifications *map[string]string     `json:"specifications"`
}

// ListProductsInput captures catalog filters. Storefront callers always set ActiveOnly.
type ListProductsInput struct {
	Category   *enums.ProductCategory
	Featured   *bool
	ActiveOnly bool
	Query      string
	Pagination pagination.Params
}
