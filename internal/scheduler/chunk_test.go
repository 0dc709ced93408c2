package scheduler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk_ShortTextIsOneChunk(t *testing.T) {
	chunks := chunk("hello world")
	assert.Equal(t, []string{"hello world"}, chunks)
}

func TestChunk_ExactlyAtLimitIsOneChunk(t *testing.T) {
	text := strings.Repeat("a", maxChunkLen)
	chunks := chunk(text)
	assert.Equal(t, []string{text}, chunks)
}

func TestChunk_SplitsOnLineBoundaries(t *testing.T) {
	line := strings.Repeat("a", 1500) + "\n"
	text := strings.Repeat(line, 4) // 6000 bytes, four identical lines

	chunks := chunk(text)

	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), maxChunkLen)
	}
	// no content lost across the split
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunk_HardSplitsASingleOversizedLine(t *testing.T) {
	text := strings.Repeat("b", maxChunkLen*2+10)

	chunks := chunk(text)

	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks[:len(chunks)-1] {
		assert.Equal(t, maxChunkLen, len(c))
	}
}

func TestChunk_EmptyTextIsOneEmptyChunk(t *testing.T) {
	chunks := chunk("")
	assert.Equal(t, []string{""}, chunks)
}
