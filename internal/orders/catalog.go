package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/gemvault/gemvault-backend/internal/products"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
)

type productCatalog struct {
	products *product.Repository
}

// NewCatalog adapts the product repository to the checkout stock surface.
func NewCatalog(products *product.Repository) Catalog {
	return &productCatalog{products: products}
}

func (c *productCatalog) FindProducts(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]models.Product, error) {
	return c.products.WithTx(tx).FindByIDs(ctx, ids)
}

func (c *productCatalog) Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	return c.products.WithTx(tx).DecrementStock(ctx, productID, qty)
}

func (c *productCatalog) Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	return c.products.WithTx(tx).IncrementStock(ctx, productID, qty)
}
