package query

import (
	"encoding/json"
	"errors"
	"net/http"

	"research-orchestrator/internal/handler/http/respond"
	"research-orchestrator/internal/pipeline"
	"research-orchestrator/internal/repository"
)

// Handler runs one pipeline execution per request.
type Handler struct {
	Pipeline  *pipeline.Pipeline
	QueryLogs repository.QueryLogRepository // optional; nil disables logging
}

// ServeHTTP runs the pipeline for the request body and returns its response.
//
// @Summary      Run a research query
// @Description  Routes, collects, analyzes, and responds to a single ad hoc query.
// @Tags         query
// @Accept       json
// @Produce      json
// @Param        request body Request true "query request"
// @Success      200 {object} Response
// @Failure      400 {string} string "invalid request body"
// @Router       /query [post]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Message == "" && (req.Source == "" || req.Query == "") {
		respond.Error(w, http.StatusBadRequest, errMissingInput)
		return
	}

	state := h.Pipeline.Run(r.Context(), req.Message, req.Source, req.Query)

	if state.Invalid {
		respond.Error(w, http.StatusBadRequest, errors.New(state.Err))
		return
	}

	if h.QueryLogs != nil {
		userID := userIDFromRequest(r)
		logEntry(r.Context(), h.QueryLogs, userID, state)
	}

	respond.JSON(w, http.StatusOK, Response{
		Source:   state.Source,
		Response: state.Response,
		Error:    state.Err,
	})
}

// userIDFromRequest identifies the caller for the query log. There is no
// auth layer in front of this endpoint (see DESIGN.md), so the remote
// address stands in for a user identifier.
func userIDFromRequest(r *http.Request) string {
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "anonymous"
}
