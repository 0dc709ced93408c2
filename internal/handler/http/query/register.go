package query

import (
	"net/http"

	"research-orchestrator/internal/pipeline"
	"research-orchestrator/internal/repository"
)

// Register wires the query endpoint into mux.
func Register(mux *http.ServeMux, p *pipeline.Pipeline, logs repository.QueryLogRepository) {
	mux.Handle("POST /query", Handler{Pipeline: p, QueryLogs: logs})
}
