package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Scoped returns a gorm handle bound to ctx and, when tx is set, running on
// that transaction. Repositories call it so that service-level transactions
// opened on *sql.DB also cover gorm statements.
func Scoped(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	conn := db.WithContext(ctx)
	if tx == nil {
		return conn
	}
	conn = conn.Session(&gorm.Session{NewDB: true, Context: ctx})
	conn.Statement.ConnPool = tx
	return conn
}
