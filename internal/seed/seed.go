// Package seed loads the bootstrap data a fresh store needs and wipes it for local resets.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gemvault/gemvault-backend/internal/admins"
	"github.com/gemvault/gemvault-backend/pkg/config"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	"github.com/gemvault/gemvault-backend/pkg/security"
)

// AdminInput describes the owner account created by Seed.
type AdminInput struct {
	Email    string
	Name     string
	Password string
}

// Result summarizes what Seed inserted.
type Result struct {
	AdminCreated      bool
	CategoriesCreated int
}

type category struct {
	name        string
	description string
	color       string
}

var defaultCategories = []category{
	{"Inventory", "Gold, silver, stones and finished pieces bought for resale", "#D4AF37"},
	{"Packaging", "Boxes, pouches and gift wrap", "#8E44AD"},
	{"Shipping", "Courier and postage costs", "#2980B9"},
	{"Marketing", "Ads, photography and promotions", "#E67E22"},
	{"Tools & Equipment", "Bench tools, polishing and repair supplies", "#7F8C8D"},
	{"Rent & Utilities", "Workshop or showroom running costs", "#27AE60"},
	{"Other", "Anything that does not fit elsewhere", "#95A5A6"},
}

// clearOrder deletes children before parents so foreign keys hold.
var clearOrder = []string{
	"analytics_history",
	"analytics_metadata",
	"analytics_cache",
	"order_items",
	"orders",
	"expenses",
	"expense_categories",
	"products",
	"admins",
}

// Seeder writes and clears bootstrap data.
type Seeder struct {
	db       *gorm.DB
	password config.PasswordConfig
}

func New(conn *gorm.DB, password config.PasswordConfig) (*Seeder, error) {
	if conn == nil {
		return nil, errors.New("database required")
	}
	return &Seeder{db: conn, password: password}, nil
}

// Seed creates the owner admin when the email is unused and inserts any missing default
// expense categories. Running it twice is a no-op.
func (s *Seeder) Seed(ctx context.Context, admin AdminInput) (*Result, error) {
	email := admins.NormalizeEmail(admin.Email)
	if email == "" {
		return nil, errors.New("admin email required")
	}
	if len(admin.Password) < 8 {
		return nil, errors.New("admin password must be at least 8 characters")
	}
	name := strings.TrimSpace(admin.Name)
	if name == "" {
		name = "Store Owner"
	}

	result := &Result{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hash, err := security.HashPassword(admin.Password, s.password)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		owner := &models.Admin{
			Email:        email,
			Name:         name,
			PasswordHash: hash,
			Role:         enums.AdminRoleOwner,
			IsActive:     true,
		}
		res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(owner)
		if res.Error != nil {
			return fmt.Errorf("create admin: %w", res.Error)
		}
		result.AdminCreated = res.RowsAffected > 0

		for _, c := range defaultCategories {
			description, color := c.description, c.color
			row := &models.ExpenseCategory{Name: c.name, Description: &description, Color: &color}
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(row)
			if res.Error != nil {
				return fmt.Errorf("create category %q: %w", c.name, res.Error)
			}
			result.CategoriesCreated += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Clear deletes every row from the application tables and resets the refresh guard.
func (s *Seeder) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var errs error
		for _, table := range clearOrder {
			errs = multierr.Append(errs, tx.Exec("DELETE FROM "+table).Error)
		}
		errs = multierr.Append(errs, tx.Exec("UPDATE analytics_refresh_guard SET generation = 0, claimed_at = NULL, claimed_by = NULL WHERE id = 1").Error)
		if errs != nil {
			return fmt.Errorf("clear tables: %w", errs)
		}
		return nil
	})
}
