package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MonthBucket returns a SQL expression yielding the YYYY-MM bucket of a
// timestamp column for the connection's dialect.
func MonthBucket(conn *gorm.DB, column string) string {
	if conn != nil && conn.Dialector != nil && conn.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("substr(%s, 1, 7)", column)
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM')", column)
}

// ForUpdate row-locks the selected rows until the transaction ends. SQLite has
// no row locks and rejects the clause, so it is skipped there.
func ForUpdate(conn *gorm.DB) *gorm.DB {
	if conn == nil || (conn.Dialector != nil && conn.Dialector.Name() == "sqlite") {
		return conn
	}
	return conn.Clauses(clause.Locking{Strength: "UPDATE"})
}
