package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"research-orchestrator/internal/domain/item"
)

// Crypto queries CoinGecko: trending coins, the market overview, or one coin
// by id/symbol, dispatched from the query string.
type Crypto struct {
	base
}

// NewCrypto constructs the CoinGecko-backed crypto collector.
func NewCrypto() *Crypto {
	return &Crypto{base: newBase("crypto", 10*time.Second, 1)}
}

func (c *Crypto) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	mode := strings.ToLower(strings.TrimSpace(query))
	limit := opts.LimitOr(10)

	var items []item.CollectedItem
	var err error
	switch {
	case mode == "" || mode == "trending":
		items, err = c.fetchTrending(ctx)
	case mode == "market":
		items, err = c.fetchMarket(ctx, limit)
	default:
		items, err = c.fetchCoin(ctx, mode)
	}
	if err != nil {
		logMiss(c.name, query, err)
		return nil, err
	}
	return items, nil
}

func (c *Crypto) fetchTrending(ctx context.Context) ([]item.CollectedItem, error) {
	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		var parsed struct {
			Coins []struct {
				Item struct {
					ID     string `json:"id"`
					Name   string `json:"name"`
					Symbol string `json:"symbol"`
					Rank   int    `json:"market_cap_rank"`
				} `json:"item"`
			} `json:"coins"`
		}
		if err := c.getJSON(ctx, "https://api.coingecko.com/api/v3/search/trending", &parsed); err != nil {
			return err
		}
		items = nil
		for _, entry := range parsed.Coins {
			co := entry.Item
			items = append(items, item.CollectedItem{
				Source:  "crypto",
				Title:   fmt.Sprintf("Trending: %s (%s)", co.Name, strings.ToUpper(co.Symbol)),
				Content: fmt.Sprintf("%s is trending on CoinGecko, market cap rank #%d.", co.Name, co.Rank),
				URL:     "https://www.coingecko.com/en/coins/" + co.ID,
				Metadata: map[string]any{
					"coin_id": co.ID,
					"symbol":  co.Symbol,
					"rank":    co.Rank,
				},
			})
		}
		return nil
	})
	return items, err
}

func (c *Crypto) fetchMarket(ctx context.Context, limit int) ([]item.CollectedItem, error) {
	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		endpoint := fmt.Sprintf(
			"https://api.coingecko.com/api/v3/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1&sparkline=false&price_change_percentage=24h,7d",
			limit)
		var parsed []struct {
			ID                           string  `json:"id"`
			Symbol                       string  `json:"symbol"`
			Name                         string  `json:"name"`
			CurrentPrice                 float64 `json:"current_price"`
			MarketCap                    float64 `json:"market_cap"`
			PriceChangePercentage24h     float64 `json:"price_change_percentage_24h"`
			TotalVolume                  float64 `json:"total_volume"`
		}
		if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
			return err
		}
		items = nil
		for _, co := range parsed {
			items = append(items, item.CollectedItem{
				Source:  "crypto",
				Title:   fmt.Sprintf("%s (%s): $%.2f", co.Name, strings.ToUpper(co.Symbol), co.CurrentPrice),
				Content: fmt.Sprintf("%s trades at $%.2f, market cap $%.0f, 24h change %.2f%%.", co.Name, co.CurrentPrice, co.MarketCap, co.PriceChangePercentage24h),
				URL:     "https://www.coingecko.com/en/coins/" + co.ID,
				Metadata: map[string]any{
					"coin_id":     co.ID,
					"symbol":      co.Symbol,
					"price_usd":   co.CurrentPrice,
					"market_cap":  co.MarketCap,
					"change_24h":  co.PriceChangePercentage24h,
					"volume_24h":  co.TotalVolume,
				},
			})
		}
		return nil
	})
	return items, err
}

func (c *Crypto) fetchCoin(ctx context.Context, id string) ([]item.CollectedItem, error) {
	var out *item.CollectedItem
	err := c.do(ctx, func() error {
		var coin coinGeckoCoin
		direct := "https://api.coingecko.com/api/v3/coins/" + url.PathEscape(id)
		if err := c.getJSON(ctx, direct, &coin); err != nil {
			// fall back to search, then resolve the first match
			var search struct {
				Coins []struct {
					ID string `json:"id"`
				} `json:"coins"`
			}
			if serr := c.getJSON(ctx, "https://api.coingecko.com/api/v3/search?query="+url.QueryEscape(id), &search); serr != nil {
				return serr
			}
			if len(search.Coins) == 0 {
				out = nil
				return nil
			}
			if err := c.getJSON(ctx, "https://api.coingecko.com/api/v3/coins/"+search.Coins[0].ID, &coin); err != nil {
				return err
			}
		}
		price := coin.MarketData.CurrentPrice["usd"]
		change := coin.MarketData.PriceChangePercentage24h
		it := item.CollectedItem{
			Source:  "crypto",
			Title:   fmt.Sprintf("%s (%s): $%s", coin.Name, strings.ToUpper(coin.Symbol), strconv.FormatFloat(price, 'f', 2, 64)),
			Content: fmt.Sprintf("%s is priced at $%.2f, 24h change %.2f%%.", coin.Name, price, change),
			URL:     "https://www.coingecko.com/en/coins/" + coin.ID,
			Metadata: map[string]any{
				"coin_id":    coin.ID,
				"symbol":     coin.Symbol,
				"price_usd":  price,
				"change_24h": change,
			},
		}
		out = &it
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}
	return []item.CollectedItem{*out}, nil
}

type coinGeckoCoin struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	MarketData struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		PriceChangePercentage24h float64             `json:"price_change_percentage_24h"`
	} `json:"market_data"`
}

// getJSON is a small convenience shared by the JSON-REST collectors that
// don't need custom headers beyond User-Agent.
func (b base) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "research-orchestrator/1.0")
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &httpStatusError{status: resp.StatusCode}
	}
	return decodeJSON(resp.Body, v)
}

// Dex is the DEX aggregator (DexScreener) search collector.
type Dex struct {
	base
}

// NewDex constructs the DexScreener collector.
func NewDex() *Dex {
	return &Dex{base: newBase("dex", 10*time.Second, 1)}
}

func (c *Dex) Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error) {
	limit := opts.LimitOr(10)
	var items []item.CollectedItem
	err := c.do(ctx, func() error {
		var parsed struct {
			Pairs []struct {
				BaseToken struct {
					Name   string `json:"name"`
					Symbol string `json:"symbol"`
				} `json:"baseToken"`
				PriceUsd  string  `json:"priceUsd"`
				Liquidity struct {
					Usd float64 `json:"usd"`
				} `json:"liquidity"`
				Volume struct {
					H24 float64 `json:"h24"`
				} `json:"volume"`
				PriceChange struct {
					H24 float64 `json:"h24"`
				} `json:"priceChange"`
				URL string `json:"url"`
			} `json:"pairs"`
		}
		if err := c.getJSON(ctx, "https://api.dexscreener.com/latest/dex/search?q="+url.QueryEscape(query), &parsed); err != nil {
			return err
		}
		items = nil
		for i, p := range parsed.Pairs {
			if i >= limit {
				break
			}
			items = append(items, item.CollectedItem{
				Source:  "dex",
				Title:   fmt.Sprintf("%s (%s): $%s", p.BaseToken.Name, strings.ToUpper(p.BaseToken.Symbol), p.PriceUsd),
				Content: fmt.Sprintf("Liquidity $%.0f, 24h volume $%.0f, 24h change %.2f%%.", p.Liquidity.Usd, p.Volume.H24, p.PriceChange.H24),
				URL:     p.URL,
				Metadata: map[string]any{
					"symbol":      p.BaseToken.Symbol,
					"price_usd":   p.PriceUsd,
					"liquidity":   p.Liquidity.Usd,
					"volume_24h":  p.Volume.H24,
					"change_24h":  p.PriceChange.H24,
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
