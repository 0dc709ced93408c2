package postgres

import (
	"context"
	"fmt"
	"time"

	"research-orchestrator/internal/domain/querylog"
	"research-orchestrator/internal/repository"
)

// QueryLogRepo is the Postgres-backed QueryLogRepository.
type QueryLogRepo struct {
	db sqlExecutor
}

// NewQueryLogRepo constructs a QueryLogRepo. db is typically a *sql.DB or a
// *circuitbreaker.DBCircuitBreaker wrapping one.
func NewQueryLogRepo(db sqlExecutor) repository.QueryLogRepository {
	return &QueryLogRepo{db: db}
}

func (r *QueryLogRepo) Append(ctx context.Context, e querylog.Entry) error {
	const query = `
		INSERT INTO query_log (user_id, source, query, response, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	response := e.Response
	if len(response) > querylog.ResponseTruncateLen {
		response = response[:querylog.ResponseTruncateLen]
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query, e.UserID, e.Source, e.Query, response, createdAt)
	if err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}

func (r *QueryLogRepo) History(ctx context.Context, userID string, limit int) ([]querylog.Entry, error) {
	const query = `
		SELECT id, user_id, source, query, response, created_at
		FROM query_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	defer rows.Close()

	var entries []querylog.Entry
	for rows.Next() {
		var e querylog.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Source, &e.Query, &e.Response, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("History: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	return entries, nil
}
