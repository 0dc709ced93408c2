package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"research-orchestrator/internal/domain/item"
)

// News is the free RSS-proxy news collector: Google News' RSS search
// endpoint, no credentials required.
type News struct {
	base
}

// NewNews constructs the free news collector.
func NewNews() *News {
	return &News{base: newBase("news", 15*time.Second, 2)}
}

func (c *News) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	limit := opts.LimitOr(10)
	feedURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en", url.QueryEscape(query))

	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		fp := gofeed.NewParser()
		fp.UserAgent = "research-orchestrator/1.0"
		fp.Client = c.client
		feed, err := fp.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			return fmt.Errorf("news: parse feed: %w", err)
		}
		items = nil
		for i, entry := range feed.Items {
			if i >= limit {
				break
			}
			content := entry.Description
			if entry.Content != "" {
				content = entry.Content
			}
			items = append(items, item.CollectedItem{
				Source:      "news",
				Title:       entry.Title,
				Content:     content,
				URL:         entry.Link,
				PublishedAt: entry.Published,
			})
		}
		return nil
	})
	if err != nil {
		logMiss(c.name, query, err)
		return nil, err
	}
	return items, nil
}

// NewsRapidAPI is the paid news search collector, keyed distinctly from News
// per the original source's split between "news" and "news_rapidapi".
type NewsRapidAPI struct {
	base
	apiKey string
	host   string
}

// NewNewsRapidAPI constructs the paid news collector. apiKey/host come from
// config; an empty apiKey means the collector will fail every call (it
// degrades gracefully, never panics, at config-validation time the factory
// should simply not register this key if no key is configured).
func NewNewsRapidAPI(apiKey, host string) *NewsRapidAPI {
	return &NewsRapidAPI{base: newBase("news_rapidapi", 15*time.Second, 1), apiKey: apiKey, host: host}
}

type rapidAPINewsResponse struct {
	Data []struct {
		Title       string `json:"title"`
		Snippet     string `json:"snippet"`
		Link        string `json:"link"`
		PublishedAt string `json:"published_datetime_utc"`
	} `json:"data"`
}

func (c *NewsRapidAPI) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("news_rapidapi: no API key configured")
	}
	limit := opts.LimitOr(10)
	endpoint := fmt.Sprintf("https://%s/search?query=%s&limit=%d&lang=en", c.host, url.QueryEscape(query), limit)

	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("x-rapidapi-key", c.apiKey)
		req.Header.Set("x-rapidapi-host", c.host)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return &httpStatusError{status: resp.StatusCode, body: string(body)}
		}

		var parsed rapidAPINewsResponse
		if err := decodeJSON(resp.Body, &parsed); err != nil {
			return fmt.Errorf("news_rapidapi: decode: %w", err)
		}
		items = nil
		for _, a := range parsed.Data {
			items = append(items, item.CollectedItem{
				Source:      "news_rapidapi",
				Title:       a.Title,
				Content:     a.Snippet,
				URL:         a.Link,
				PublishedAt: a.PublishedAt,
			})
		}
		return nil
	})
	if err != nil {
		logMiss(c.name, query, err)
		return nil, err
	}
	return items, nil
}
