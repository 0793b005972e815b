package session

import (
	"fmt"
	"time"
)

// StartRest sets the rest end to now + d and returns it.
func (s *State) StartRest(now time.Time, d time.Duration) time.Time {
	if d < 0 {
		d = 0
	}
	s.RestEnd = now.Add(d)
	return s.RestEnd
}

// RestRemaining is max(0, rest end - now). Zero means ready for the next set.
func (s *State) RestRemaining(now time.Time) time.Duration {
	if s.RestEnd.IsZero() {
		return 0
	}
	remaining := s.RestEnd.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *State) Ready(now time.Time) bool {
	return s.RestRemaining(now) == 0
}

// ElapsedTotal is the time since the workout started.
func (s *State) ElapsedTotal(now time.Time) time.Duration {
	elapsed := now.Sub(s.Started(now))
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// FormatClock renders d as MM:SS, truncating to whole seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
