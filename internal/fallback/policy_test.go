package fallback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Next_BuiltinChain(t *testing.T) {
	p := New()

	next, ok := p.Next("news", nil)
	assert.True(t, ok)
	assert.Equal(t, "news_rapidapi", next)
}

func TestPolicy_Next_SkipsTried(t *testing.T) {
	p := New()

	next, ok := p.Next("news", []string{"news_rapidapi", "ddg_news"})
	assert.True(t, ok)
	assert.Equal(t, "reddit", next)
}

func TestPolicy_Next_Exhausted(t *testing.T) {
	p := New()

	next, ok := p.Next("news", []string{"news_rapidapi", "ddg_news", "reddit"})
	assert.False(t, ok)
	assert.Empty(t, next)
}

func TestPolicy_Next_UnknownSourceUsesDefaultChain(t *testing.T) {
	p := New()

	next, ok := p.Next("some-unconfigured-source", nil)
	assert.True(t, ok)
	assert.Equal(t, "news", next)
}

func TestLoadOverride_MissingFileFallsBackToBuiltin(t *testing.T) {
	p, err := LoadOverride("")
	require.NoError(t, err)

	next, ok := p.Next("news", nil)
	assert.True(t, ok)
	assert.Equal(t, "news_rapidapi", next)
}

func TestLoadOverride_NonexistentPathIsNotAnError(t *testing.T) {
	p, err := LoadOverride(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	_, ok := p.Next("news", nil)
	assert.True(t, ok)
}

func TestLoadOverride_MergesOverTheBuiltinMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fallback.yaml")
	require.NoError(t, os.WriteFile(path, []byte("news: [\"wikipedia\", \"arxiv\"]\n"), 0o644))

	p, err := LoadOverride(path)
	require.NoError(t, err)

	next, ok := p.Next("news", nil)
	assert.True(t, ok)
	assert.Equal(t, "wikipedia", next)

	// untouched entries stay at their compiled-in value
	next, ok = p.Next("weather", nil)
	assert.True(t, ok)
	assert.Equal(t, "news", next)
}

func TestLoadOverride_InvalidYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fallback.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o644))

	_, err := LoadOverride(path)
	assert.Error(t, err)
}
