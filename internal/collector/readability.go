package collector

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"

	"research-orchestrator/internal/domain/item"
)

// enrichWithFullContent replaces a link-only item's snippet content with the
// extracted article body, when WithFullContent is requested. Best-effort:
// any failure leaves the item's existing content untouched.
func enrichWithFullContent(ctx context.Context, client *http.Client, it *item.CollectedItem) {
	if it.URL == "" {
		return
	}
	parsed, err := url.Parse(it.URL)
	if err != nil {
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, it.URL, nil)
	if err != nil {
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		slog.Debug("readability: fetch failed", slog.String("url", it.URL), slog.Any("error", err))
		return
	}
	defer resp.Body.Close()

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		slog.Debug("readability: parse failed", slog.String("url", it.URL), slog.Any("error", err))
		return
	}
	if article.TextContent != "" {
		it.Content = truncate(article.TextContent, 4000)
	}
}
