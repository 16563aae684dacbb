package expenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
)

// Repository persists expenses and their categories.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListCategories(ctx context.Context) ([]models.ExpenseCategory, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.ExpenseCategory, error)
	CreateCategory(ctx context.Context, category *models.ExpenseCategory) error
	SaveCategory(ctx context.Context, category *models.ExpenseCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error)
	CountExpensesInCategory(ctx context.Context, id uuid.UUID) (int64, error)

	FindExpense(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	ListExpenses(ctx context.Context, filter expenseFilter, cursor *pagination.Cursor) ([]models.Expense, error)
	CreateExpense(ctx context.Context, expense *models.Expense) error
	SaveExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) (bool, error)
}

// expenseFilter is ListExpensesInput with the date range resolved to [from, until).
type expenseFilter struct {
	categoryID *uuid.UUID
	from       *time.Time
	until      *time.Time
	limit      int
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	var categories []models.ExpenseCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.ExpenseCategory, error) {
	var category models.ExpenseCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) CreateCategory(ctx context.Context, category *models.ExpenseCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) SaveCategory(ctx context.Context, category *models.ExpenseCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *repository) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ExpenseCategory{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) CountExpensesInCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Expense{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

func (r *repository) FindExpense(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses orders by expense date, newest first; the cursor timestamp is the expense date.
func (r *repository) ListExpenses(ctx context.Context, filter expenseFilter, cursor *pagination.Cursor) ([]models.Expense, error) {
	query := r.db.WithContext(ctx).Model(&models.Expense{}).Preload("Category")
	if filter.categoryID != nil {
		query = query.Where("category_id = ?", *filter.categoryID)
	}
	if filter.from != nil {
		query = query.Where("expense_date >= ?", *filter.from)
	}
	if filter.until != nil {
		query = query.Where("expense_date < ?", *filter.until)
	}
	if cursor != nil {
		query = query.Where("(expense_date < ?) OR (expense_date = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Expense
	err := query.
		Order("expense_date DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Omit("Category").Create(expense).Error
}

func (r *repository) SaveExpense(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Omit("Category").Save(expense).Error
}

func (r *repository) DeleteExpense(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Expense{})
	return res.RowsAffected > 0, res.Error
}
