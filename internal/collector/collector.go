// Package collector implements the polymorphic fetch-from-one-upstream
// abstraction (C2): a uniform collect/close/name contract over fifteen
// wildly different upstream transports, each wrapped in the same
// retry+backoff+circuit-breaker+rate-limit discipline.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"research-orchestrator/internal/domain/item"
	"research-orchestrator/internal/resilience/circuitbreaker"
	"research-orchestrator/internal/resilience/retry"
)

// ErrUnknownSource is returned by the registry when asked for a key it does
// not carry. It is raised synchronously to the caller; the pipeline never
// silently rewrites it into a different source.
var ErrUnknownSource = errors.New("collector: unknown source")

// Options bounds and shapes a single collect call. Fields not recognised by
// a given collector are accepted and ignored, per spec.
type Options struct {
	// Limit bounds the number of returned items. Zero means "use the
	// collector's own default".
	Limit int
	// FullContent asks the collector to enrich link-only results with
	// extracted article text (go-readability) before returning them.
	// Off by default; only a subset of collectors honour it.
	FullContent bool
}

// LimitOr returns o.Limit if positive, otherwise def.
func (o Options) LimitOr(def int) int {
	if o.Limit > 0 {
		return o.Limit
	}
	return def
}

// Collector is the capability set every concrete source implements:
// collect, close, name, per spec §9.
type Collector interface {
	Name() string
	Collect(ctx context.Context, query string, opts Options) ([]item.CollectedItem, error)
	Close() error
}

// base bundles the cross-collector helpers (retry, circuit breaker, rate
// limiting, HTTP client) that every concrete collector embeds. Per-collector
// state (API keys, extra headers) lives in the struct that embeds it.
type base struct {
	name    string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	retry   retry.Config
	limiter *rate.Limiter
}

// newBase constructs the shared plumbing for a collector named name, with a
// per-call timeout and a steady-state rate limit (requests per second).
func newBase(name string, timeout time.Duration, rps float64) base {
	return base{
		name:    name,
		client:  &http.Client{Timeout: timeout},
		breaker: circuitbreaker.New(circuitbreaker.CollectorConfig(name)),
		retry:   retry.CollectorConfig(),
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// do runs fn through rate limiting, the circuit breaker, and retry+backoff,
// the same composition internal/infra/scraper/rss.go uses for gofeed calls.
func (b base) do(ctx context.Context, fn func() error) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", b.name, err)
	}
	return retry.WithBackoff(ctx, b.retry, func() error {
		_, err := b.breaker.Execute(func() (interface{}, error) {
			return nil, fn()
		})
		if err != nil {
			return err
		}
		return nil
	})
}

// Close satisfies Collector for sources with no held resources beyond the
// shared http.Client, which needs no explicit close.
func (b base) Close() error { return nil }

// Name satisfies Collector.
func (b base) Name() string { return b.name }

func logMiss(name, query string, err error) {
	slog.Warn("collector miss", slog.String("collector", name), slog.String("query", query), slog.Any("error", err))
}
