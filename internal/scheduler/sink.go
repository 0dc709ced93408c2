// Package scheduler implements the Daily Scheduler (C8): a wall-clock loop
// that fires the pipeline once per configured source every day at a fixed
// hour:minute, then delivers the combined briefing to a group sink and every
// active subscriber.
package scheduler

import "context"

// Sink delivers a rendered briefing to one recipient. Implementations carry
// their own rate limiting and retry policy, mirroring the teacher's
// notify.Channel contract (internal/usecase/notify/channel.go) but
// generalized from "article notification" to "arbitrary text message".
type Sink interface {
	// Name identifies the sink for logging and metrics.
	Name() string
	// Send delivers message to recipient. Implementations must respect
	// context cancellation.
	Send(ctx context.Context, recipient, message string) error
}
