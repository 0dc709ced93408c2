package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"research-orchestrator/internal/domain/querylog"
	"research-orchestrator/internal/pipeline"
	"research-orchestrator/internal/repository"
)

// briefingUser identifies the scheduled briefing in the query log, distinct
// from any interactive per-subscriber user ID.
const briefingUser = "daily-scheduler"

// Scheduler is a wall-clock daily loop, not a cron library: the teacher's
// worker used robfig/cron (cmd/worker/main.go's startCronWorker), but a
// single fixed hour:minute firing needs none of cron's field-expression
// machinery, so this computes the next occurrence directly.
type Scheduler struct {
	pipeline *pipeline.Pipeline
	sink     Sink

	subscribers repository.SubscriberRepository
	queryLogs   repository.QueryLogRepository

	hour, minute int
	sources      []string
	groupSinkID  string

	now func() time.Time
}

// New constructs a Scheduler. now defaults to time.Now when nil; tests
// supply a deterministic clock.
func New(p *pipeline.Pipeline, sink Sink, subs repository.SubscriberRepository, logs repository.QueryLogRepository, hour, minute int, sources []string, groupSinkID string) *Scheduler {
	return &Scheduler{
		pipeline:    p,
		sink:        sink,
		subscribers: subs,
		queryLogs:   logs,
		hour:        hour,
		minute:      minute,
		sources:     sources,
		groupSinkID: groupSinkID,
		now:         time.Now,
	}
}

// Run blocks, firing once per day at hour:minute UTC until ctx is canceled.
// A panic or error during one firing is recovered/logged and never stops
// the loop; the next day's firing is unaffected.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := s.nextFire(s.now().UTC())
		wait := next.Sub(s.now().UTC())
		slog.Info("scheduler: next firing scheduled", slog.Time("at", next), slog.Duration("wait", wait))

		select {
		case <-ctx.Done():
			slog.Info("scheduler: stopping")
			return
		case <-time.After(wait):
		}

		s.fireSafely(ctx)

		// Guard against a firing that completes within the same minute it
		// started, which would otherwise make nextFire immediately recompute
		// to "now" and fire twice.
		time.Sleep(60 * time.Second)
	}
}

// nextFire returns the first instant strictly after now at hour:minute UTC.
func (s *Scheduler) nextFire(now time.Time) time.Time {
	candidate := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, time.UTC)
	if !candidate.After(now) {
		candidate = candidate.Add(24 * time.Hour)
	}
	return candidate
}

func (s *Scheduler) fireSafely(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduler: firing panicked, recovering", slog.Any("panic", r))
		}
	}()
	s.fire(ctx)
}

// fire runs the pipeline once per configured source and broadcasts the
// concatenated briefing.
func (s *Scheduler) fire(ctx context.Context) {
	slog.Info("scheduler: firing", slog.Int("sources", len(s.sources)))

	var sections []string
	sections = append(sections, fmt.Sprintf("Daily briefing — %s", s.now().UTC().Format("2006-01-02")))

	for _, source := range s.sources {
		state := s.pipeline.Run(ctx, "", source, source)

		body := state.Response
		if body == "" && state.Err != "" {
			body = "unavailable: " + state.Err
		}
		sections = append(sections, fmt.Sprintf("--- %s ---\n%s", strings.ToUpper(source), body))

		if s.queryLogs != nil {
			if err := s.queryLogs.Append(ctx, querylog.Entry{
				UserID:    briefingUser,
				Source:    source,
				Query:     source,
				Response:  state.Response,
				CreatedAt: s.now().UTC(),
			}); err != nil {
				slog.Warn("scheduler: query log append failed", slog.String("source", source), slog.Any("error", err))
			}
		}
	}

	briefing := strings.Join(sections, "\n\n")
	s.broadcast(ctx, briefing)
}
