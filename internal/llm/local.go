package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"research-orchestrator/internal/resilience/circuitbreaker"
	"research-orchestrator/internal/resilience/retry"
)

// Local speaks the Ollama-style wire format: POST /api/chat, health GET
// /api/tags. No published Go client for this wire format exists in the
// reference pack, so it is a thin hand-written net/http + encoding/json
// client — the justified stdlib exception, documented in DESIGN.md.
type Local struct {
	baseURL       string
	routingModel  string
	analysisModel string
	client        *http.Client
	breaker       *circuitbreaker.CircuitBreaker
	retry         retry.Config
}

// NewLocal constructs the local-inference provider.
func NewLocal(baseURL, routingModel, analysisModel string) *Local {
	return &Local{
		baseURL:       strings.TrimRight(baseURL, "/"),
		routingModel:  routingModel,
		analysisModel: analysisModel,
		client:        &http.Client{Timeout: 60 * time.Second},
		breaker:       circuitbreaker.New(circuitbreaker.LLMConfig("local")),
		retry:         retry.LLMConfig(),
	}
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []Message       `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaChatOptions `json:"options"`
}

type ollamaChatOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

func (l *Local) Complete(ctx context.Context, messages []Message, model string, temperature float64) (Response, error) {
	if model == "" {
		model = l.analysisModel
	}

	var text string
	err := retry.WithBackoff(ctx, l.retry, func() error {
		_, err := l.breaker.Execute(func() (interface{}, error) {
			body, err := json.Marshal(ollamaChatRequest{
				Model:    model,
				Messages: messages,
				Stream:   false,
				Options:  ollamaChatOptions{Temperature: temperature},
			})
			if err != nil {
				return nil, err
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/chat", bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := l.client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: "local llm chat"}
			}

			var parsed ollamaChatResponse
			if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
				return nil, fmt.Errorf("llm local: decode: %w", err)
			}
			text = parsed.Message.Content
			return nil, nil
		})
		return err
	})
	if err != nil {
		return Response{}, fmt.Errorf("llm local: %w", err)
	}
	return Response{text: text}, nil
}

func (l *Local) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (l *Local) Close() error { return nil }
