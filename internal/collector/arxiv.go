package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"research-orchestrator/internal/domain/item"
)

// Arxiv queries arXiv's Atom export API. gofeed parses the Atom namespace
// generically, matching the same parser used for the RSS/Atom collectors.
type Arxiv struct {
	base
}

// NewArxiv constructs the arXiv collector.
func NewArxiv() *Arxiv {
	return &Arxiv{base: newBase("arxiv", 15*time.Second, 1)}
}

func (c *Arxiv) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	limit := opts.LimitOr(10)
	endpoint := fmt.Sprintf(
		"https://export.arxiv.org/api/query?search_query=all:%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		url.QueryEscape(query), limit)

	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		fp := gofeed.NewParser()
		fp.UserAgent = "research-orchestrator/1.0"
		fp.Client = c.client
		feed, err := fp.ParseURLWithContext(endpoint, ctx)
		if err != nil {
			return fmt.Errorf("arxiv: parse feed: %w", err)
		}
		items = nil
		for _, entry := range feed.Items {
			arxivID := entry.GUID
			if idx := strings.LastIndex(arxivID, "/abs/"); idx != -1 {
				arxivID = arxivID[idx+len("/abs/"):]
			}
			var authors []string
			for _, p := range entry.Authors {
				authors = append(authors, p.Name)
			}
			summary := entry.Description
			pdfURL := entry.Link
			for _, l := range entry.Enclosures {
				if strings.Contains(l.URL, "pdf") {
					pdfURL = l.URL
				}
			}
			items = append(items, item.CollectedItem{
				Source:      "arxiv",
				Title:       entry.Title,
				Content:     summary,
				URL:         pdfURL,
				PublishedAt: entry.Published,
				Metadata: map[string]any{
					"arxiv_id":   arxivID,
					"authors":    authors,
					"categories": entry.Categories,
				},
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
