package scheduler

import "strings"

// maxChunkLen is the per-message delivery limit for broadcasts. It is kept
// below the pipeline's own ResponseLimit because a briefing concatenates
// several sources' responses into one body before being chunked.
const maxChunkLen = 4000

// chunk splits text into pieces no longer than maxChunkLen, preferring to
// break on line boundaries so a source section is never split mid-line
// unless a single line itself exceeds the limit.
func chunk(text string) []string {
	if len(text) <= maxChunkLen {
		return []string{text}
	}

	var chunks []string
	var current string
	start := 0
	for start < len(text) {
		nl := strings.IndexByte(text[start:], '\n')
		end := len(text)
		if nl >= 0 {
			end = start + nl + 1
		}
		line := text[start:end]

		if len(line) > maxChunkLen {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			for len(line) > maxChunkLen {
				chunks = append(chunks, line[:maxChunkLen])
				line = line[maxChunkLen:]
			}
			current = line
		} else if len(current)+len(line) > maxChunkLen {
			chunks = append(chunks, current)
			current = line
		} else {
			current += line
		}
		start = end
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
