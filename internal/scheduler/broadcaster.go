package scheduler

import (
	"context"
	"log/slog"

	"research-orchestrator/internal/domain/subscriber"
)

// broadcast delivers briefing to the group sink (if configured) and every
// active subscriber, chunking each recipient's copy independently. A single
// recipient's failure is logged and skipped; it never aborts the run,
// mirroring the teacher's per-channel isolation in notify.Service.
func (s *Scheduler) broadcast(ctx context.Context, briefing string) {
	chunks := chunk(briefing)

	if s.groupSinkID != "" {
		deliver(ctx, s.sink, s.groupSinkID, chunks)
	}

	subs, err := s.subscribers.ListActive(ctx)
	if err != nil {
		slog.Error("scheduler: list active subscribers failed", slog.Any("error", err))
		return
	}
	for _, sub := range subs {
		deliverToSubscriber(ctx, s.sink, sub, chunks)
	}
}

func deliver(ctx context.Context, sink Sink, recipient string, chunks []string) {
	for i, c := range chunks {
		if err := sink.Send(ctx, recipient, c); err != nil {
			slog.Error("scheduler: delivery failed",
				slog.String("recipient", recipient),
				slog.Int("chunk", i+1),
				slog.Int("chunks", len(chunks)),
				slog.Any("error", err))
			return
		}
	}
}

func deliverToSubscriber(ctx context.Context, sink Sink, sub subscriber.Subscriber, chunks []string) {
	if !sub.Active {
		return
	}
	deliver(ctx, sink, sub.PhoneNumber, chunks)
}
