package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gemvault/gemvault-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one %s migration, found %d", suffix, len(matches))
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestMigrationsContainSchemas(t *testing.T) {
	cases := map[string][]string{
		"create_admins_table": {
			"CREATE TABLE IF NOT EXISTS admins",
			"email text NOT NULL UNIQUE",
		},
		"create_products_table": {
			"CREATE TABLE IF NOT EXISTS products",
			"stock_quantity integer NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0)",
			"CREATE INDEX IF NOT EXISTS idx_products_active_category",
		},
		"create_expenses_tables": {
			"CREATE TABLE IF NOT EXISTS expense_categories",
			"REFERENCES expense_categories (id) ON DELETE RESTRICT",
		},
		"create_orders_tables": {
			"CREATE TABLE IF NOT EXISTS orders",
			"'payment_pending'",
			"REFERENCES orders (id) ON DELETE CASCADE",
			"REFERENCES products (id) ON DELETE SET NULL",
		},
		"create_analytics_tables": {
			"CREATE TABLE IF NOT EXISTS analytics_cache",
			"CREATE TABLE IF NOT EXISTS analytics_metadata",
			"CREATE TABLE IF NOT EXISTS analytics_history",
			"INSERT INTO analytics_refresh_guard (id, generation) VALUES (1, 0)",
		},
	}

	for suffix, checks := range cases {
		content := readMigration(t, suffix)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", suffix, sub)
			}
		}
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("expected error for empty dir")
	}

	if err := os.WriteFile(filepath.Join(dir, "init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("expected filename error")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Order Notes!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_order_notes.sql") {
		t.Fatalf("unexpected path %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := migrate.CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatalf("expected error for empty sanitized name")
	}
}
