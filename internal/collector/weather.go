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

// Weather fetches current conditions and a short forecast from wttr.in's
// JSON ("j1") format, free and keyless.
type Weather struct {
	base
}

// NewWeather constructs the weather collector.
func NewWeather() *Weather {
	return &Weather{base: newBase("weather", 10*time.Second, 2)}
}

type wttrResponse struct {
	CurrentCondition []struct {
		TempC       string `json:"temp_C"`
		TempF       string `json:"temp_F"`
		Humidity    string `json:"humidity"`
		WindspeedKm string `json:"windspeedKmph"`
		WeatherDesc []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []struct {
			Value string `json:"value"`
		} `json:"areaName"`
		Country []struct {
			Value string `json:"value"`
		} `json:"country"`
	} `json:"nearest_area"`
	Weather []struct {
		Date    string `json:"date"`
		MaxtempC string `json:"maxtempC"`
		MintempC string `json:"mintempC"`
	} `json:"weather"`
}

func (c *Weather) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	location := strings.TrimSpace(query)
	if location == "" {
		location = "London"
	}
	endpoint := fmt.Sprintf("https://wttr.in/%s?format=j1", url.PathEscape(location))

	var out item.CollectedItem
	err := c.do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return &httpStatusError{status: resp.StatusCode}
		}

		var data wttrResponse
		if err := decodeJSON(resp.Body, &data); err != nil {
			return fmt.Errorf("weather: decode: %w", err)
		}
		if len(data.CurrentCondition) == 0 {
			out = item.CollectedItem{}
			return nil
		}
		cur := data.CurrentCondition[0]
		desc := ""
		if len(cur.WeatherDesc) > 0 {
			desc = cur.WeatherDesc[0].Value
		}
		area, country := location, ""
		if len(data.NearestArea) > 0 {
			if len(data.NearestArea[0].AreaName) > 0 {
				area = data.NearestArea[0].AreaName[0].Value
			}
			if len(data.NearestArea[0].Country) > 0 {
				country = data.NearestArea[0].Country[0].Value
			}
		}

		var forecast strings.Builder
		for i, day := range data.Weather {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&forecast, "%s: %s°C - %s°C\n", day.Date, day.MintempC, day.MaxtempC)
		}

		content := fmt.Sprintf("Current: %s°C (%s), humidity %s%%, wind %s km/h.\nForecast:\n%s",
			cur.TempC, desc, cur.Humidity, cur.WindspeedKm, forecast.String())

		out = item.CollectedItem{
			Source:  "weather_wttr",
			Title:   fmt.Sprintf("Weather for %s", area),
			Content: content,
			URL:     "https://wttr.in/" + url.PathEscape(location),
			Metadata: map[string]any{
				"temp_c":      cur.TempC,
				"temp_f":      cur.TempF,
				"humidity":    cur.Humidity,
				"wind_kmph":   cur.WindspeedKm,
				"description": desc,
				"location":    area,
				"country":     country,
			},
		}
		return nil
	})
	if err != nil {
		logMiss(c.name, query, err)
		return nil, err
	}
	if out.Title == "" {
		return nil, nil
	}
	return []item.CollectedItem{out}, nil
}
