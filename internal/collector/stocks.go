package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"research-orchestrator/internal/domain/item"
)

// Stocks fetches quotes from Yahoo Finance's quote endpoint, falling back
// per-symbol to the chart endpoint when the primary batch call fails.
type Stocks struct {
	base
}

// NewStocks constructs the stocks collector.
func NewStocks() *Stocks {
	return &Stocks{base: newBase("stocks", 10*time.Second, 1)}
}

var marketIndexSymbols = []string{"^GSPC", "^DJI", "^IXIC", "^RUT", "^VIX"}

func (c *Stocks) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	var symbols []string
	if strings.ToLower(strings.TrimSpace(query)) == "market" {
		symbols = marketIndexSymbols
	} else {
		for _, s := range strings.Split(query, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s != "" {
				symbols = append(symbols, s)
			}
		}
	}
	if len(symbols) == 0 {
		return nil, nil
	}

	items, err := c.fetchQuotes(ctx, symbols)
	if err != nil {
		slog.Warn("stocks: primary quote endpoint failed, falling back per-symbol", slog.Any("error", err))
		return c.fetchQuotesFallback(ctx, symbols), nil
	}
	return items, nil
}

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			ShortName                  string  `json:"shortName"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

func (c *Stocks) fetchQuotes(ctx context.Context, symbols []string) ([]item.CollectedItem, error) {
	endpoint := "https://query1.finance.yahoo.com/v7/finance/quote?symbols=" + url.QueryEscape(strings.Join(symbols, ","))
	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		var parsed yahooQuoteResponse
		if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
			return err
		}
		items = nil
		for _, q := range parsed.QuoteResponse.Result {
			items = append(items, item.CollectedItem{
				Source:  "stocks",
				Title:   fmt.Sprintf("%s (%s): $%.2f", q.ShortName, q.Symbol, q.RegularMarketPrice),
				Content: fmt.Sprintf("%s trades at $%.2f, change %.2f%%.", q.ShortName, q.RegularMarketPrice, q.RegularMarketChangePercent),
				URL:     "https://finance.yahoo.com/quote/" + q.Symbol,
				Metadata: map[string]any{
					"symbol":        q.Symbol,
					"price":         q.RegularMarketPrice,
					"change_pct":    q.RegularMarketChangePercent,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("stocks: empty quote response")
	}
	return items, nil
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// fetchQuotesFallback fetches one symbol at a time via the chart endpoint;
// a failure on one symbol is logged and skipped rather than aborting the
// whole batch, matching the original collector's per-symbol resilience.
func (c *Stocks) fetchQuotesFallback(ctx context.Context, symbols []string) []item.CollectedItem {
	var items []item.CollectedItem
	for _, sym := range symbols {
		endpoint := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=5d", url.PathEscape(sym))
		var parsed yahooChartResponse
		if err := c.getJSON(ctx, endpoint, &parsed); err != nil || len(parsed.Chart.Result) == 0 {
			slog.Warn("stocks: chart fallback failed for symbol", slog.String("symbol", sym), slog.Any("error", err))
			continue
		}
		meta := parsed.Chart.Result[0].Meta
		changePct := 0.0
		if meta.ChartPreviousClose != 0 {
			changePct = (meta.RegularMarketPrice - meta.ChartPreviousClose) / meta.ChartPreviousClose * 100
		}
		items = append(items, item.CollectedItem{
			Source:  "stocks",
			Title:   fmt.Sprintf("%s: $%.2f", meta.Symbol, meta.RegularMarketPrice),
			Content: fmt.Sprintf("%s trades at $%.2f, change %.2f%% vs previous close.", meta.Symbol, meta.RegularMarketPrice, changePct),
			URL:     "https://finance.yahoo.com/quote/" + meta.Symbol,
			Metadata: map[string]any{
				"symbol":     meta.Symbol,
				"price":      meta.RegularMarketPrice,
				"change_pct": changePct,
			},
		})
	}
	return items
}
