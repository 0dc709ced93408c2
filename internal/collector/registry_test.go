package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-orchestrator/internal/domain/item"
)

type nopCollector struct{ name string }

func (c nopCollector) Name() string { return c.name }
func (c nopCollector) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	return nil, nil
}
func (c nopCollector) Close() error { return nil }

func TestRegistry_Get_ConstructsFreshInstancePerCall(t *testing.T) {
	builds := 0
	reg := New(map[string]Constructor{
		"news": func() Collector {
			builds++
			return nopCollector{name: "news"}
		},
	})

	_, err := reg.Get("news")
	require.NoError(t, err)
	_, err = reg.Get("news")
	require.NoError(t, err)

	assert.Equal(t, 2, builds)
}

func TestRegistry_Get_UnknownNameReturnsErrUnknownSource(t *testing.T) {
	reg := New(map[string]Constructor{"news": func() Collector { return nopCollector{name: "news"} }})

	_, err := reg.Get("bogus")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSource))
}

func TestRegistry_Has(t *testing.T) {
	reg := New(map[string]Constructor{"news": func() Collector { return nopCollector{name: "news"} }})

	assert.True(t, reg.Has("news"))
	assert.False(t, reg.Has("bogus"))
}

func TestRegistry_Keys_SortedAndIndependentOfConstructorArg(t *testing.T) {
	reg := New(map[string]Constructor{
		"reddit": func() Collector { return nopCollector{name: "reddit"} },
		"arxiv":  func() Collector { return nopCollector{name: "arxiv"} },
		"news":   func() Collector { return nopCollector{name: "news"} },
	})

	assert.Equal(t, []string{"arxiv", "news", "reddit"}, reg.Keys())
}

func TestRegistry_New_CopiesInputMap(t *testing.T) {
	input := map[string]Constructor{"news": func() Collector { return nopCollector{name: "news"} }}
	reg := New(input)

	input["reddit"] = func() Collector { return nopCollector{name: "reddit"} }

	assert.False(t, reg.Has("reddit"))
}
