package postgres

import (
	"context"
	"database/sql"
)

// sqlExecutor is the subset of *sql.DB both repositories need. Satisfied by
// *sql.DB directly or by *circuitbreaker.DBCircuitBreaker, so callers can
// trip a circuit breaker around Postgres without the repositories knowing
// about it.
type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}
