// Package item defines the unit of data every collector produces.
package item

// CollectedItem is the normalized record every collector returns, regardless
// of the upstream API's own shape. Source identifies which collector
// produced it (not necessarily the registry key it was invoked under, e.g.
// the wikipedia collector tags items "wikipedia_current", "wikipedia_otd",
// etc. depending on which mode ran).
type CollectedItem struct {
	Source      string         `json:"source"`
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	URL         string         `json:"url,omitempty"`
	PublishedAt string         `json:"published_at,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
