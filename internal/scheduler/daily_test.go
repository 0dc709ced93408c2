package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_NextFire_LaterTodayWhenBeforeTarget(t *testing.T) {
	s := &Scheduler{hour: 9, minute: 0}
	now := time.Date(2026, 7, 31, 6, 0, 0, 0, time.UTC)

	next := s.nextFire(now)

	assert.Equal(t, time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC), next)
}

func TestScheduler_NextFire_TomorrowWhenTargetAlreadyPassed(t *testing.T) {
	s := &Scheduler{hour: 9, minute: 0}
	now := time.Date(2026, 7, 31, 10, 0, 0, 0, time.UTC)

	next := s.nextFire(now)

	assert.Equal(t, time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC), next)
}

func TestScheduler_NextFire_TomorrowWhenExactlyAtTarget(t *testing.T) {
	// "not after now" means an exact match also rolls to the next day, so a
	// single firing never double-fires on its own scheduled minute.
	s := &Scheduler{hour: 9, minute: 30}
	now := time.Date(2026, 7, 31, 9, 30, 0, 0, time.UTC)

	next := s.nextFire(now)

	assert.Equal(t, time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC), next)
}

func TestScheduler_NextFire_CrossesMonthBoundary(t *testing.T) {
	s := &Scheduler{hour: 0, minute: 0}
	now := time.Date(2026, 7, 31, 23, 0, 0, 0, time.UTC)

	next := s.nextFire(now)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), next)
}
