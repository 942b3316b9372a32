package pending

import (
	"context"
	"database/sql"
)

// DBExecutor интерфейс исполнителя запросов к БД.
// Подходит и *sql.DB, и *sql.Tx.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
