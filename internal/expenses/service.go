package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/db"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
)

// Service manages operating expenses and the categories they roll up into.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	// DeleteCategory refuses while any expense still references the category.
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListExpenses(ctx context.Context, input ListExpensesInput) (*pagination.Page[ExpenseDTO], error)
	GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseDTO, error)
	CreateExpense(ctx context.Context, input CreateExpenseInput) (*ExpenseDTO, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, input UpdateExpenseInput) (*ExpenseDTO, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   db.TxRunner
}

func NewService(repo Repository, tx db.TxRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expenses repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, db.MapError(err, "expense category")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewCategoryDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	category := &models.ExpenseCategory{
		Name:        strings.TrimSpace(input.Name),
		Description: trimmed(input.Description),
		Color:       trimmed(input.Color),
	}
	if category.Name == "" {
		return nil, fieldError("name", "is required")
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, db.MapError(err, "expense category")
	}
	return NewCategoryDTO(category), nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "expense category")
	}
	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
		if category.Name == "" {
			return nil, fieldError("name", "is required")
		}
	}
	if input.Description != nil {
		category.Description = trimmed(input.Description)
	}
	if input.Color != nil {
		category.Color = trimmed(input.Color)
	}
	if err := s.repo.SaveCategory(ctx, category); err != nil {
		return nil, db.MapError(err, "expense category")
	}
	return NewCategoryDTO(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		inUse, err := repo.CountExpensesInCategory(ctx, id)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "expense category is still in use").
				WithDetails(map[string]any{"expenseCount": inUse})
		}
		deleted, err := repo.DeleteCategory(ctx, id)
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "expense category is still in use")
			}
			return err
		}
		if !deleted {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return db.MapError(err, "expense category")
}

func (s *service) ListExpenses(ctx context.Context, input ListExpensesInput) (*pagination.Page[ExpenseDTO], error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	filter := expenseFilter{categoryID: input.CategoryID, from: input.From, limit: input.Pagination.Limit}
	if input.To != nil {
		until := endOfRange(*input.To)
		filter.until = &until
	}
	if filter.from != nil && filter.until != nil && !filter.from.Before(*filter.until) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must be before to")
	}

	rows, err := s.repo.ListExpenses(ctx, filter, cursor)
	if err != nil {
		return nil, db.MapError(err, "expense")
	}
	page := pagination.Window(rows, input.Pagination.Limit, func(e models.Expense) pagination.Cursor {
		return pagination.Cursor{CreatedAt: e.ExpenseDate, ID: e.ID}
	})
	out := &pagination.Page[ExpenseDTO]{Items: make([]ExpenseDTO, 0, len(page.Items)), NextCursor: page.NextCursor}
	for i := range page.Items {
		out.Items = append(out.Items, *NewExpenseDTO(&page.Items[i]))
	}
	return out, nil
}

// endOfRange makes a date-only upper bound cover its whole day.
func endOfRange(to time.Time) time.Time {
	to = to.UTC()
	if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 && to.Nanosecond() == 0 {
		return to.AddDate(0, 0, 1)
	}
	return to.Add(time.Nanosecond)
}

func (s *service) GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseDTO, error) {
	expense, err := s.repo.FindExpense(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "expense")
	}
	return NewExpenseDTO(expense), nil
}

func (s *service) CreateExpense(ctx context.Context, input CreateExpenseInput) (*ExpenseDTO, error) {
	date, err := ParseExpenseDate(input.ExpenseDate)
	if err != nil {
		return nil, err
	}
	expense := &models.Expense{
		CategoryID:  input.CategoryID,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount.Round(2),
		ExpenseDate: date,
		Vendor:      trimmed(input.Vendor),
		Notes:       trimmed(input.Notes),
		CreatedBy:   input.CreatedBy,
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	var created *models.Expense
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindCategory(ctx, expense.CategoryID); err != nil {
			return categoryLookupError(err)
		}
		if err := repo.CreateExpense(ctx, expense); err != nil {
			return err
		}
		created, err = repo.FindExpense(ctx, expense.ID)
		return err
	})
	if err != nil {
		return nil, db.MapError(err, "expense")
	}
	return NewExpenseDTO(created), nil
}

func (s *service) UpdateExpense(ctx context.Context, id uuid.UUID, input UpdateExpenseInput) (*ExpenseDTO, error) {
	var updated *models.Expense
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		expense, err := repo.FindExpense(ctx, id)
		if err != nil {
			return err
		}
		if input.CategoryID != nil && *input.CategoryID != expense.CategoryID {
			if _, err := repo.FindCategory(ctx, *input.CategoryID); err != nil {
				return categoryLookupError(err)
			}
			expense.CategoryID = *input.CategoryID
			expense.Category = nil
		}
		if input.Description != nil {
			expense.Description = strings.TrimSpace(*input.Description)
		}
		if input.Amount != nil {
			expense.Amount = input.Amount.Round(2)
		}
		if input.ExpenseDate != nil {
			date, err := ParseExpenseDate(*input.ExpenseDate)
			if err != nil {
				return err
			}
			expense.ExpenseDate = date
		}
		if input.Vendor != nil {
			expense.Vendor = trimmed(input.Vendor)
		}
		if input.Notes != nil {
			expense.Notes = trimmed(input.Notes)
		}
		if err := validateExpense(expense); err != nil {
			return err
		}
		if err := repo.SaveExpense(ctx, expense); err != nil {
			return err
		}
		updated, err = repo.FindExpense(ctx, id)
		return err
	})
	if err != nil {
		return nil, db.MapError(err, "expense")
	}
	return NewExpenseDTO(updated), nil
}

func (s *service) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteExpense(ctx, id)
	if err != nil {
		return db.MapError(err, "expense")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
	}
	return nil
}

// ParseExpenseDate accepts YYYY-MM-DD or RFC3339 and normalizes to UTC.
func ParseExpenseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fieldError("expenseDate", "is required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fieldError("expenseDate", "must be YYYY-MM-DD or RFC3339")
	}
	return t.UTC(), nil
}

func validateExpense(e *models.Expense) error {
	details := map[string]string{}
	if e.CategoryID == uuid.Nil {
		details["categoryId"] = "is required"
	}
	if e.Description == "" {
		details["description"] = "is required"
	}
	if !e.Amount.IsPositive() {
		details["amount"] = "must be greater than 0"
	}
	if e.ExpenseDate.IsZero() {
		details["expenseDate"] = "is required"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

func categoryLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fieldError("categoryId", "does not exist")
	}
	return err
}

func fieldError(field, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{field: msg})
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
