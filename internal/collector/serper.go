package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"research-orchestrator/internal/domain/item"
)

// Serper queries Google search results via the Serper.dev API.
type Serper struct {
	base
	apiKey string
}

// NewSerper constructs the Serper collector. An empty apiKey makes every
// call fail; callers should simply not register this source when no key is
// configured.
func NewSerper(apiKey string) *Serper {
	return &Serper{base: newBase("serper", 10*time.Second, 1), apiKey: apiKey}
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
	} `json:"organic"`
}

func (c *Serper) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serper: no API key configured")
	}
	limit := opts.LimitOr(10)

	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		payload, err := json.Marshal(map[string]any{"q": query, "num": limit})
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://google.serper.dev/search", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("X-API-KEY", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return &httpStatusError{status: resp.StatusCode}
		}

		var parsed serperResponse
		if err := decodeJSON(resp.Body, &parsed); err != nil {
			return fmt.Errorf("serper: decode: %w", err)
		}
		items = nil
		for i, r := range parsed.Organic {
			if i >= limit {
				break
			}
			it := item.CollectedItem{
				Source:      "serper",
				Title:       r.Title,
				Content:     r.Snippet,
				URL:         r.Link,
				PublishedAt: r.Date,
			}
			if opts.FullContent {
				enrichWithFullContent(ctx, c.client, &it)
			}
			items = append(items, it)
		}
		return nil
	})
	if err != nil {
		logMiss(c.name, query, err)
		return nil, err
	}
	return items, nil
}
