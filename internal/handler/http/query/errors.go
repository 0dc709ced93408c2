package query

import (
	"context"
	"errors"
	"log/slog"

	pstate "research-orchestrator/internal/domain/pipeline"
	"research-orchestrator/internal/domain/querylog"
	"research-orchestrator/internal/repository"
)

var errMissingInput = errors.New("required: either message, or both source and query")

// logEntry appends the finished query to the log best-effort; a failure here
// must never fail the HTTP response.
func logEntry(ctx context.Context, repo repository.QueryLogRepository, userID string, state pstate.State) {
	if err := repo.Append(ctx, querylog.Entry{
		UserID:   userID,
		Source:   state.Source,
		Query:    state.Query,
		Response: state.Response,
	}); err != nil {
		slog.Warn("query handler: log append failed", slog.Any("error", err))
	}
}
