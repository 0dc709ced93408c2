package repository

import (
	"context"

	"research-orchestrator/internal/domain/querylog"
)

// QueryLogRepository is the append-only record of pipeline executions.
type QueryLogRepository interface {
	// Append records one entry. Response is truncated to
	// querylog.ResponseTruncateLen before storage. Best-effort: callers
	// must swallow the returned error rather than fail the request on it.
	Append(ctx context.Context, e querylog.Entry) error
	// History returns up to limit entries for userID, most recent first.
	History(ctx context.Context, userID string, limit int) ([]querylog.Entry, error)
}
