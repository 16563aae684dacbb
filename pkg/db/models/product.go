package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/enums"
)

// Product is a catalog item offered on the storefront.
type Product struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	SKU            string                `gorm:"column:sku;not null;uniqueIndex"`
	Name           string                `gorm:"column:name;not null"`
	Description    *string               `gorm:"column:description"`
	Category       enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Material       *string               `gorm:"column:material"`
	Price          decimal.Decimal       `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal      `gorm:"column:compare_at_price;type:numeric(12,2)"`
	StockQuantity  int                   `gorm:"column:stock_quantity;not null;default:0"`
	IsActive       bool                  `gorm:"column:is_active;not null"`
	IsFeatured     bool                  `gorm:"column:is_featured;not null"`
	Images         []string              `gorm:"column:images;type:jsonb;serializer:json"`
	Specifications map[string]string     `gorm:"column:specifications;type:jsonb;serializer:json"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
