package collector

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripFunc adapts a function to http.RoundTripper, avoiding a real
// network call for collectors whose endpoint is not injectable.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const wttrBody = `{
  "current_condition": [{"temp_C":"18","temp_F":"64","humidity":"70","windspeedKmph":"12","weatherDesc":[{"value":"Light rain"}]}],
  "nearest_area": [{"areaName":[{"value":"Lisbon"}],"country":[{"value":"Portugal"}]}],
  "weather": [{"date":"2026-07-31","maxtempC":"20","mintempC":"14"}]
}`

func TestWeather_Collect_ParsesCurrentConditionsAndForecast(t *testing.T) {
	c := NewWeather()
	c.client.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, wttrBody), nil
	})

	items, err := c.Collect(context.Background(), "Lisbon", Options{})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "weather_wttr", items[0].Source)
	assert.Contains(t, items[0].Title, "Lisbon")
	assert.Contains(t, items[0].Content, "18°C")
	assert.Equal(t, "Light rain", items[0].Metadata["description"])
}

func TestWeather_Collect_EmptyCurrentConditionReturnsNoItems(t *testing.T) {
	c := NewWeather()
	c.client.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"current_condition": []}`), nil
	})

	items, err := c.Collect(context.Background(), "Nowhere", Options{})

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWeather_Collect_NonRetryableStatusReturnsErrorImmediately(t *testing.T) {
	c := NewWeather()
	calls := 0
	c.client.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusNotFound, "not found"), nil
	})

	items, err := c.Collect(context.Background(), "Lisbon", Options{})

	assert.Error(t, err)
	assert.Nil(t, items)
	assert.Equal(t, 1, calls)
}

func TestWeather_Collect_BlankQueryDefaultsToLondon(t *testing.T) {
	c := NewWeather()
	var requested string
	c.client.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		requested = r.URL.String()
		return jsonResponse(http.StatusOK, wttrBody), nil
	})

	_, err := c.Collect(context.Background(), "   ", Options{})

	require.NoError(t, err)
	assert.Contains(t, requested, "London")
}
