package expenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
)

type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewCategoryDTO(c *models.ExpenseCategory) *CategoryDTO {
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=80"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=80"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

type ExpenseDTO struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	Category    *CategoryDTO    `json:"category,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expenseDate"`
	Vendor      *string         `json:"vendor,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedBy   *uuid.UUID      `json:"createdBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func NewExpenseDTO(e *models.Expense) *ExpenseDTO {
	dto := &ExpenseDTO{
		ID:          e.ID,
		CategoryID:  e.CategoryID,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
		Vendor:      e.Vendor,
		Notes:       e.Notes,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Category != nil {
		dto.Category = NewCategoryDTO(e.Category)
	}
	return dto
}

// CreateExpenseInput accepts expenseDate as YYYY-MM-DD or RFC3339.
type CreateExpenseInput struct {
	CategoryID  uuid.UUID       `json:"categoryId" validate:"required"`
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	ExpenseDate string          `json:"expenseDate" validate:"required"`
	Vendor      *string         `json:"vendor" validate:"omitempty,max=200"`
	Notes       *string         `json:"notes" validate:"omitempty,max=2000"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

type UpdateExpenseInput struct {
	CategoryID  *uuid.UUID       `json:"categoryId"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=500"`
	Amount      *decimal.Decimal `json:"amount"`
	ExpenseDate *string          `json:"expenseDate"`
	Vendor      *string          `json:"vendor" validate:"omitempty,max=200"`
	Notes       *string          `json:"notes" validate:"omitempty,max=2000"`
}

// ListExpensesInput filters by category and an inclusive expense date range.
type ListExpensesInput struct {
	CategoryID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Pagination pagination.Params
}
