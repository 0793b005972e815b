package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer_DefaultIsReady(t *testing.T) {
	state := NewState("s1", testStart)
	assert.Equal(t, time.Duration(0), state.RestRemaining(testStart))
	assert.True(t, state.Ready(testStart))
}

func TestTimer_StartRest(t *testing.T) {
	state := NewState("s1", testStart)
	now := testStart.Add(10 * time.Minute)

	restEnd := state.StartRest(now, 90*time.Second)
	assert.Equal(t, now.Add(90*time.Second), restEnd)
	assert.InDelta(t, float64(90*time.Second), float64(state.RestRemaining(now)), float64(time.Second))
	assert.False(t, state.Ready(now))

	// a new rest replaces the previous one
	state.StartRest(now.Add(time.Second), 30*time.Second)
	assert.Equal(t, 30*time.Second, state.RestRemaining(now.Add(time.Second)))

	state.StartRest(now, -time.Minute)
	assert.True(t, state.Ready(now))
}

func TestTimer_RemainingMonotonic(t *testing.T) {
	state := NewState("s1", testStart)
	state.StartRest(testStart, 60*time.Second)

	prev := state.RestRemaining(testStart)
	for step := 1; step <= 90; step++ {
		now := testStart.Add(time.Duration(step) * time.Second)
		remaining := state.RestRemaining(now)
		assert.LessOrEqual(t, remaining, prev, "step %d", step)
		assert.GreaterOrEqual(t, remaining, time.Duration(0))
		prev = remaining
	}
	assert.Equal(t, time.Duration(0), prev)
	assert.True(t, state.Ready(testStart.Add(90*time.Second)))
}

func TestTimer_ElapsedTotal(t *testing.T) {
	state := NewState("s1", testStart)
	assert.Equal(t, 42*time.Minute, state.ElapsedTotal(testStart.Add(42*time.Minute)))
	assert.Equal(t, time.Duration(0), state.ElapsedTotal(testStart.Add(-time.Minute)))

	lazy := &State{ID: "s2"}
	assert.Equal(t, time.Duration(0), lazy.ElapsedTotal(testStart))
	assert.Equal(t, time.Minute, lazy.ElapsedTotal(testStart.Add(time.Minute)))
}

func TestFormatClock(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-5 * time.Second, "00:00"},
		{59*time.Second + 900*time.Millisecond, "00:59"},
		{90 * time.Second, "01:30"},
		{75 * time.Minute, "75:00"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatClock(tc.d), tc.d.String())
	}
}
