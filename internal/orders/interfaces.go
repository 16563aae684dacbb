package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, input ListOrdersInput, cursor *pagination.Cursor) ([]models.Order, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// TransitionStatus applies updates only while the row still has the observed status and payment flag.
	TransitionStatus(ctx context.Context, id uuid.UUID, from enums.OrderStatus, paymentReceived bool, updates map[string]any) (bool, error)
	FindStaleBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	// DeleteStaleOrder reports false when the order stopped being stale since it was read.
	DeleteStaleOrder(ctx context.Context, id uuid.UUID, cutoff time.Time) (bool, error)
	// DeleteOrders removes the orders and their items, returning the number of orders deleted.
	DeleteOrders(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// Catalog resolves products for checkout and moves their stock.
type Catalog interface {
	FindProducts(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]models.Product, error)
	Reserve(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
	Release(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}
