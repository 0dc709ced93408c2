package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"research-orchestrator/internal/domain/item"
)

// fixedFeed collects from a single, non-searchable RSS feed and filters
// locally by substring match against the query. TMZ and CryptoPanic share
// this shape: both publish one feed with no server-side search.
type fixedFeed struct {
	base
	feedURL string
}

func newFixedFeed(name, feedURL string) fixedFeed {
	return fixedFeed{base: newBase(name, 15*time.Second, 1), feedURL: feedURL}
}

func (c *fixedFeed) collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	limit := opts.LimitOr(10)
	needle := strings.ToLower(strings.TrimSpace(query))

	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		fp := gofeed.NewParser()
		fp.UserAgent = "research-orchestrator/1.0"
		fp.Client = c.client
		feed, err := fp.ParseURLWithContext(c.feedURL, ctx)
		if err != nil {
			return fmt.Errorf("%s: parse feed: %w", c.name, err)
		}
		items = nil
		for _, entry := range feed.Items {
			if needle != "" &&
				!strings.Contains(strings.ToLower(entry.Title), needle) &&
				!strings.Contains(strings.ToLower(entry.Description), needle) {
				continue
			}
			content := entry.Description
			if len(content) > 1000 {
				content = content[:1000]
			}
			items = append(items, item.CollectedItem{
				Source:      c.name,
				Title:       entry.Title,
				Content:     content,
				URL:         entry.Link,
				PublishedAt: entry.Published,
			})
			if len(items) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		logMiss(c.name, query, err)
		return nil, err
	}
	return items, nil
}

// TMZ collects from TMZ's fixed RSS feed.
type TMZ struct{ fixedFeed }

// NewTMZ constructs the TMZ collector.
func NewTMZ() *TMZ {
	return &TMZ{fixedFeed: newFixedFeed("tmz", "https://www.tmz.com/rss.xml")}
}

func (c *TMZ) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	return c.collect(ctx, query, opts)
}

// CryptoPanic collects from CryptoPanic's fixed news RSS feed.
type CryptoPanic struct{ fixedFeed }

// NewCryptoPanic constructs the CryptoPanic collector.
func NewCryptoPanic() *CryptoPanic {
	return &CryptoPanic{fixedFeed: newFixedFeed("cryptopanic", "https://cryptopanic.com/news/rss/")}
}

func (c *CryptoPanic) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	return c.collect(ctx, query, opts)
}
