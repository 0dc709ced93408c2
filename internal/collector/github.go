package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"research-orchestrator/internal/domain/item"
)

// GitHub searches repositories, either "trending" (created in the last
// week, sorted by stars) or a free-text search.
type GitHub struct {
	base
	token string
}

// NewGitHub constructs the GitHub collector. token may be empty; requests
// are then made unauthenticated at GitHub's lower rate limit.
func NewGitHub(token string) *GitHub {
	return &GitHub{base: newBase("github", 10*time.Second, 1), token: token}
}

type githubSearchResponse struct {
	Items []struct {
		FullName    string   `json:"full_name"`
		Description string   `json:"description"`
		HTMLURL     string   `json:"html_url"`
		Stars       int      `json:"stargazers_count"`
		Forks       int      `json:"forks_count"`
		Language    string   `json:"language"`
		Topics      []string `json:"topics"`
		OpenIssues  int      `json:"open_issues_count"`
	} `json:"items"`
}

func (c *GitHub) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	limit := opts.LimitOr(10)

	q := query
	if strings.ToLower(strings.TrimSpace(query)) == "trending" {
		weekAgo := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")
		q = "created:>" + weekAgo
	}
	endpoint := fmt.Sprintf("https://api.github.com/search/repositories?q=%s&sort=stars&order=desc&per_page=%d", url.QueryEscape(q), limit)

	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return &httpStatusError{status: resp.StatusCode}
		}

		var parsed githubSearchResponse
		if err := decodeJSON(resp.Body, &parsed); err != nil {
			return fmt.Errorf("github: decode: %w", err)
		}
		items = nil
		for _, r := range parsed.Items {
			topics := r.Topics
			if len(topics) > 10 {
				topics = topics[:10]
			}
			items = append(items, item.CollectedItem{
				Source:  "github",
				Title:   r.FullName,
				Content: fmt.Sprintf("%s\n\n%d stars, %d forks, written in %s.", r.Description, r.Stars, r.Forks, r.Language),
				URL:     r.HTMLURL,
				Metadata: map[string]any{
					"full_name":   r.FullName,
					"stars":       r.Stars,
					"forks":       r.Forks,
					"language":    r.Language,
					"topics":      topics,
					"open_issues": r.OpenIssues,
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
