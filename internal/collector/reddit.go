package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"research-orchestrator/internal/domain/item"
)

// Reddit fetches from a specific subreddit listing ("r/<name>") or falls
// back to a site-wide search.
type Reddit struct {
	base
}

// NewReddit constructs the Reddit collector.
func NewReddit() *Reddit {
	return &Reddit{base: newBase("reddit", 10*time.Second, 1)}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string  `json:"title"`
				Selftext  string  `json:"selftext"`
				URL       string  `json:"url"`
				Permalink string  `json:"permalink"`
				Score     int     `json:"score"`
				NumComments int   `json:"num_comments"`
				Author    string  `json:"author"`
				Subreddit string  `json:"subreddit"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (c *Reddit) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	limit := opts.LimitOr(10)
	var endpoint, label string
	if strings.HasPrefix(query, "r/") {
		sub := strings.TrimPrefix(query, "r/")
		label = sub
		endpoint = fmt.Sprintf("https://www.reddit.com/r/%s/hot.json?limit=%d&raw_json=1", url.PathEscape(sub), limit)
	} else {
		label = "search"
		endpoint = fmt.Sprintf("https://www.reddit.com/search.json?q=%s&sort=relevance&t=week&limit=%d&raw_json=1", url.QueryEscape(query), limit)
	}

	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		var parsed redditListing
		if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
			return err
		}
		items = nil
		for _, child := range parsed.Data.Children {
			p := child.Data
			body := p.Selftext
			if len(body) > 500 {
				body = body[:500]
			}
			content := fmt.Sprintf("%s\n\nScore %d, %d comments, posted by u/%s.", body, p.Score, p.NumComments, p.Author)
			link := p.URL
			if link == "" && p.Permalink != "" {
				link = "https://www.reddit.com" + p.Permalink
			}
			items = append(items, item.CollectedItem{
				Source:  "reddit_" + label,
				Title:   p.Title,
				Content: content,
				URL:     link,
				Metadata: map[string]any{
					"score":     p.Score,
					"comments":  p.NumComments,
					"subreddit": p.Subreddit,
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
