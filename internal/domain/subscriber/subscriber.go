// Package subscriber defines the persistent recipients of daily briefings.
package subscriber

import "time"

// Subscriber is a daily-briefing recipient keyed by phone number.
type Subscriber struct {
	PhoneNumber  string
	SubscribedAt time.Time
	Active       bool
	Preferences  []string
}
