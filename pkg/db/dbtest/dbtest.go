// Package dbtest opens throwaway in-memory SQLite databases carrying the
// application schema, for repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/db"
)

var seq atomic.Int64

// Open returns a fresh database with every application table created.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	return OpenWith(t, Schema...)
}

// OpenWith returns a fresh database after running the given DDL statements.
func OpenWith(t *testing.T, ddl ...string) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, seq.Add(1))

	conn, err := gorm.Open(sqlite.Open(dsn), db.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range ddl {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply ddl: %v\n%s", err, stmt)
		}
	}
	return conn
}

// Schema mirrors the goose migrations using SQLite types.
var Schema = []string{
	`CREATE TABLE admins (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'admin',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		category TEXT NOT NULL,
		material TEXT,
		price NUMERIC NOT NULL,
		compare_at_price NUMERIC,
		stock_quantity INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_featured BOOLEAN NOT NULL DEFAULT 0,
		images TEXT,
		specifications TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE expense_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		color TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE expenses (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL REFERENCES expense_categories(id) ON DELETE RESTRICT,
		description TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		expense_date DATETIME NOT NULL,
		vendor TEXT,
		notes TEXT,
		created_by TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		customer_name TEXT NOT NULL,
		customer_phone TEXT NOT NULL,
		customer_email TEXT,
		shipping_address TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_received BOOLEAN NOT NULL DEFAULT 0,
		subtotal NUMERIC NOT NULL,
		shipping_fee NUMERIC NOT NULL DEFAULT 0,
		discount NUMERIC NOT NULL DEFAULT 0,
		total NUMERIC NOT NULL,
		notes TEXT,
		tracking_number TEXT,
		payment_requested_at DATETIME,
		payment_confirmed_at DATETIME,
		approved_at DATETIME,
		shipped_at DATETIME,
		delivered_at DATETIME,
		cancelled_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id TEXT REFERENCES products(id) ON DELETE SET NULL,
		product_name TEXT NOT NULL,
		product_sku TEXT NOT NULL,
		material TEXT,
		specifications TEXT,
		unit_price NUMERIC NOT NULL,
		quantity INTEGER NOT NULL,
		line_total NUMERIC NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE analytics_cache (
		metric_type TEXT PRIMARY KEY,
		calculated_data TEXT NOT NULL,
		computation_time_ms INTEGER NOT NULL DEFAULT 0,
		data_period_start DATETIME,
		data_period_end DATETIME,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE analytics_metadata (
		id TEXT PRIMARY KEY,
		last_refresh_at DATETIME NOT NULL,
		refresh_duration_ms INTEGER NOT NULL DEFAULT 0,
		total_orders_processed INTEGER NOT NULL DEFAULT 0,
		total_expenses_processed INTEGER NOT NULL DEFAULT 0,
		triggered_by TEXT NOT NULL,
		status TEXT NOT NULL,
		error_message TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE analytics_history (
		id TEXT PRIMARY KEY,
		metric_type TEXT NOT NULL,
		calculated_data TEXT NOT NULL,
		snapshot_date DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE analytics_refresh_guard (
		id INTEGER PRIMARY KEY,
		generation INTEGER NOT NULL DEFAULT 0,
		claimed_at DATETIME,
		claimed_by TEXT
	)`,
	`INSERT INTO analytics_refresh_guard (id, generation) VALUES (1, 0)`,
}
