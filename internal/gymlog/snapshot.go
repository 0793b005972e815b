package gymlog

import (
	"time"

	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/workout"
)

const ReadyLabel = "READY"

// Timer is the rest/elapsed clock at one instant. Clients keep counting
// locally from RestEnd and WorkoutStart; nothing ticks on the server.
type Timer struct {
	Now                  time.Time `json:"now"`
	WorkoutStart         time.Time `json:"workoutStart"`
	RestEnd              time.Time `json:"restEnd"`
	RestRemainingSeconds int       `json:"restRemainingSeconds"`
	ElapsedSeconds       int       `json:"elapsedSeconds"`
	Ready                bool      `json:"ready"`
	RestClock            string    `json:"restClock"`
	ElapsedClock         string    `json:"elapsedClock"`
}

type Snapshot struct {
	SessionID        string                `json:"sessionId"`
	Timer            Timer                 `json:"timer"`
	Selection        workout.Selection     `json:"selection"`
	Entries          []workout.LogEntry    `json:"entries"`
	Messages         []workout.ChatMessage `json:"messages"`
	Pending          bool                  `json:"pending"`
	LogbookAvailable bool                  `json:"logbookAvailable"`
	LogbookWarning   string                `json:"logbookWarning,omitempty"`
}

func (s *Service) Timer(state *session.State) Timer {
	now := s.now()
	remaining := state.RestRemaining(now)
	elapsed := state.ElapsedTotal(now)

	restClock := ReadyLabel
	if remaining > 0 {
		restClock = session.FormatClock(remaining)
	}

	return Timer{
		Now:                  now,
		WorkoutStart:         state.WorkoutStart,
		RestEnd:              state.RestEnd,
		RestRemainingSeconds: int(remaining / time.Second),
		ElapsedSeconds:       int(elapsed / time.Second),
		Ready:                remaining == 0,
		RestClock:            restClock,
		ElapsedClock:         session.FormatClock(elapsed),
	}
}

func (s *Service) Snapshot(state *session.State) Snapshot {
	_, pending := state.PendingUserMessage()
	entries := state.Entries
	if entries == nil {
		entries = []workout.LogEntry{}
	}
	messages := state.Messages
	if messages == nil {
		messages = []workout.ChatMessage{}
	}

	return Snapshot{
		SessionID:        state.ID,
		Timer:            s.Timer(state),
		Selection:        state.CurrentSelection(s.controller.Menu()),
		Entries:          entries,
		Messages:         messages,
		Pending:          pending,
		LogbookAvailable: s.logbook.Available(),
		LogbookWarning:   s.logbook.Warning(),
	}
}
