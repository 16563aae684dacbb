package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/db"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
)

var staleStatuses = []enums.OrderStatus{enums.OrderStatusPaymentPending, enums.OrderStatusPending}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order together with its items.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC").Order("product_sku ASC")
	})
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.withItems(ctx).
		Where("order_number = ?", strings.ToUpper(strings.TrimSpace(orderNumber))).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns one row beyond the page size, newest first.
func (r *repository) List(ctx context.Context, input ListOrdersInput, cursor *pagination.Cursor) ([]models.Order, error) {
	query := r.withItems(ctx).Model(&models.Order{})
	if input.Status != nil {
		status := input.Status.Canonical()
		if status == enums.OrderStatusPaymentPending {
			query = query.Where("status IN ?", staleStatuses)
		} else {
			query = query.Where("status = ?", status)
		}
	}
	if input.PaymentReceived != nil {
		query = query.Where("payment_received = ?", *input.PaymentReceived)
	}
	if q := strings.ToLower(strings.TrimSpace(input.Query)); q != "" {
		like := "%" + q + "%"
		query = query.Where("(LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?)", like, like, like)
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&orders).Error
	return orders, err
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from enums.OrderStatus, paymentReceived bool, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ? AND payment_received = ?", id, from, paymentReceived).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindStaleBefore locks and lists unpaid orders still awaiting payment that were created before cutoff.
func (r *repository) FindStaleBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := db.ForUpdate(r.db.WithContext(ctx)).
		Preload("Items").
		Where("status IN ? AND payment_received = ? AND created_at < ?", staleStatuses, false, cutoff).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// DeleteStaleOrder deletes the order and its items only while it is still unpaid,
// awaiting payment and older than cutoff.
func (r *repository) DeleteStaleOrder(ctx context.Context, id uuid.UUID, cutoff time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status IN ? AND payment_received = ? AND created_at < ?", id, staleStatuses, false, cutoff).
		Delete(&models.Order{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) DeleteOrders(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Order{})
	return res.RowsAffected, res.Error
}
