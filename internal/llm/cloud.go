package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"research-orchestrator/internal/resilience/circuitbreaker"
	"research-orchestrator/internal/resilience/retry"
)

// brandReferer and brandTitle are the two branding headers the cloud-router
// wire format attaches to every completion request (HTTP-Referer / X-Title),
// matching the OpenRouter-style convention in the original client.
const (
	brandReferer = "https://github.com/research-orchestrator"
	brandTitle   = "research-orchestrator"
)

// Cloud speaks an OpenAI-compatible /chat/completions contract against a
// configurable router base URL with bearer auth. go-openai already speaks
// this wire format, so it is reused as-is rather than hand-rolled.
type Cloud struct {
	client        *openai.Client
	defaultModel  string
	breaker       *circuitbreaker.CircuitBreaker
	retry         retry.Config
	healthBaseURL string
	httpClient    *http.Client
}

// NewCloud constructs the cloud-router provider. baseURL points at an
// OpenAI-compatible router (e.g. OpenRouter); apiKey is sent as a bearer
// token.
func NewCloud(baseURL, apiKey, defaultModel string) *Cloud {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{
		Timeout:   60 * time.Second,
		Transport: brandingTransport{base: http.DefaultTransport},
	}

	return &Cloud{
		client:        openai.NewClientWithConfig(cfg),
		defaultModel:  defaultModel,
		breaker:       circuitbreaker.New(circuitbreaker.LLMConfig("cloud")),
		retry:         retry.LLMConfig(),
		healthBaseURL: baseURL,
		httpClient:    cfg.HTTPClient,
	}
}

func (c *Cloud) Complete(ctx context.Context, messages []Message, model string, temperature float64) (Response, error) {
	if model == "" {
		model = c.defaultModel
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	var text string
	err := retry.WithBackoff(ctx, c.retry, func() error {
		_, err := c.breaker.Execute(func() (interface{}, error) {
			resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:       model,
				Messages:    chatMessages,
				Temperature: float32(temperature),
			})
			if err != nil {
				return nil, err
			}
			if len(resp.Choices) == 0 {
				return nil, fmt.Errorf("llm cloud: empty choices")
			}
			text = resp.Choices[0].Message.Content
			return nil, nil
		})
		return err
	})
	if err != nil {
		return Response{}, fmt.Errorf("llm cloud: %w", err)
	}
	return Response{text: text}, nil
}

func (c *Cloud) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthBaseURL+"/models", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Cloud) Close() error { return nil }

// brandingTransport attaches the two branding headers the cloud-router
// wire format expects on every request.
type brandingTransport struct {
	base http.RoundTripper
}

func (t brandingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("HTTP-Referer", brandReferer)
	req.Header.Set("X-Title", brandTitle)
	return t.base.RoundTrip(req)
}
