package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseCategory buckets operating costs for the breakdown chart.
type ExpenseCategory struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	Color       *string   `gorm:"column:color"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExpenseCategory) TableName() string { return "expense_categories" }

func (c *ExpenseCategory) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Expense is a single operating cost entry.
type Expense struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID  uuid.UUID        `gorm:"column:category_id;type:uuid;not null;index"`
	Category    *ExpenseCategory `gorm:"foreignKey:CategoryID"`
	Description string           `gorm:"column:description;not null"`
	Amount      decimal.Decimal  `gorm:"column:amount;type:numeric(12,2);not null"`
	ExpenseDate time.Time        `gorm:"column:expense_date;not null"`
	Vendor      *string          `gorm:"column:vendor"`
	Notes       *string          `gorm:"column:notes"`
	CreatedBy   *uuid.UUID       `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string { return "expenses" }

func (e *Expense) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
