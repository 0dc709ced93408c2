// Package querylog defines the append-only record of pipeline executions.
package querylog

import "time"

// ResponseTruncateLen is the maximum stored length of an entry's response.
const ResponseTruncateLen = 2000

// Entry is one row of the query log: a caller, the source and query they
// triggered, and the response they received.
type Entry struct {
	ID        int64
	UserID    string
	Source    string
	Query     string
	Response  string
	CreatedAt time.Time
}
