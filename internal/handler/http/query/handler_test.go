package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-orchestrator/internal/collector"
	"research-orchestrator/internal/domain/item"
	"research-orchestrator/internal/domain/querylog"
	"research-orchestrator/internal/fallback"
	"research-orchestrator/internal/llm"
	"research-orchestrator/internal/pipeline"
)

// fakeCollector returns a fixed item set, bypassing any real upstream.
type fakeCollector struct{ items []item.CollectedItem }

func (f fakeCollector) Name() string { return "fake" }
func (f fakeCollector) Collect(ctx context.Context, query string, opts collector.Options) ([]item.CollectedItem, error) {
	return f.items, nil
}
func (f fakeCollector) Close() error { return nil }

// fakeGateway never calls out; analyze falls back to deterministic assembly
// when it returns an error, so tests that don't care about LLM wording use it.
type fakeGateway struct{}

func (fakeGateway) Complete(ctx context.Context, messages []llm.Message, model string, temperature float64) (llm.Response, error) {
	return llm.Response{}, errGatewayUnavailable
}
func (fakeGateway) HealthCheck(ctx context.Context) bool { return true }
func (fakeGateway) Close() error                         { return nil }

var errGatewayUnavailable = errors.New("gateway: unavailable in test")

func newTestPipeline() *pipeline.Pipeline {
	reg := collector.New(map[string]collector.Constructor{
		"news": func() collector.Collector {
			return fakeCollector{items: []item.CollectedItem{
				{Source: "news", Title: "Headline one", Content: "body", URL: "https://example.com/1"},
			}}
		},
	})
	policy := fallback.New()
	return pipeline.New(reg, policy, fakeGateway{}, "router-model", "analysis-model")
}

type fakeQueryLogRepo struct {
	appended []querylog.Entry
}

func (f *fakeQueryLogRepo) Append(ctx context.Context, e querylog.Entry) error {
	f.appended = append(f.appended, e)
	return nil
}
func (f *fakeQueryLogRepo) History(ctx context.Context, userID string, limit int) ([]querylog.Entry, error) {
	return nil, nil
}

func doRequest(h Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_MissingInput(t *testing.T) {
	h := Handler{Pipeline: newTestPipeline()}
	rec := doRequest(h, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_InvalidJSON(t *testing.T) {
	h := Handler{Pipeline: newTestPipeline()}
	rec := doRequest(h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RunsPipelineWithSourceAndQuery(t *testing.T) {
	h := Handler{Pipeline: newTestPipeline()}
	rec := doRequest(h, `{"source":"news","query":"headlines"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "news", resp.Source)
	assert.Empty(t, resp.Error)
	assert.Contains(t, resp.Response, "Headline one")
}

func TestHandler_LogsSuccessfulQuery(t *testing.T) {
	logs := &fakeQueryLogRepo{}
	h := Handler{Pipeline: newTestPipeline(), QueryLogs: logs}
	rec := doRequest(h, `{"source":"news","query":"headlines"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, logs.appended, 1)
	assert.Equal(t, "news", logs.appended[0].Source)
}

func TestHandler_NilQueryLogsSkipsLogging(t *testing.T) {
	h := Handler{Pipeline: newTestPipeline(), QueryLogs: nil}
	rec := doRequest(h, `{"source":"news","query":"headlines"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_UnknownSource_Returns400WithoutLogging(t *testing.T) {
	logs := &fakeQueryLogRepo{}
	h := Handler{Pipeline: newTestPipeline(), QueryLogs: logs}
	rec := doRequest(h, `{"source":"bogus-source","query":"headlines"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, logs.appended)
}
