package session

import (
	"time"

	"github.com/2beens/vibefit/internal/coach"
	"github.com/2beens/vibefit/internal/workout"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user-visible message shown once on the next render.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

// State is everything one interactive session owns. It is passed explicitly
// through every handler and persisted between requests by a Store.
//
// Field defaults when absent:
//   - WorkoutStart: set to the first time it is read (see Started)
//   - RestEnd: zero, meaning the rest period has already elapsed
//   - Selection: first exercise of the menu with its first suggested weight
//   - Conversation: created once by the Manager, never replaced afterwards
type State struct {
	ID           string                `json:"id"`
	Messages     []workout.ChatMessage `json:"messages"`
	Entries      []workout.LogEntry    `json:"entries"`
	WorkoutStart time.Time             `json:"workoutStart"`
	RestEnd      time.Time             `json:"restEnd"`
	Selection    *workout.Selection    `json:"selection,omitempty"`
	Conversation *coach.Conversation   `json:"conversation,omitempty"`
	Notices      []Notice              `json:"notices,omitempty"`
}

func NewState(id string, now time.Time) *State {
	return &State{
		ID:           id,
		WorkoutStart: now,
	}
}

// Started returns the workout start, initializing it to now on first use.
func (s *State) Started(now time.Time) time.Time {
	if s.WorkoutStart.IsZero() {
		s.WorkoutStart = now
	}
	return s.WorkoutStart
}

// CurrentSelection returns the quick-select state, initializing it from the menu on first use.
func (s *State) CurrentSelection(menu workout.Menu) workout.Selection {
	if s.Selection == nil {
		sel := workout.Selection{}
		if exercises := menu.Exercises(); len(exercises) > 0 {
			sel = workout.SelectExercise(sel, menu, exercises[0])
		}
		s.Selection = &sel
	}
	return *s.Selection
}

func (s *State) SetSelection(sel workout.Selection) {
	s.Selection = &sel
}

// ConversationOrCreate returns the coach conversation, creating it once with create.
func (s *State) ConversationOrCreate(create func() *coach.Conversation) *coach.Conversation {
	if s.Conversation == nil {
		s.Conversation = create()
	}
	return s.Conversation
}

func (s *State) AppendEntry(entry workout.LogEntry) {
	s.Entries = append(s.Entries, entry)
}

// ClearEntries empties the local log. Remote stores are not touched.
func (s *State) ClearEntries() int {
	cleared := len(s.Entries)
	s.Entries = nil
	return cleared
}

func (s *State) AppendMessage(msg workout.ChatMessage) {
	s.Messages = append(s.Messages, msg)
}

// PendingUserMessage returns the trailing user message that got no reply yet.
func (s *State) PendingUserMessage() (workout.ChatMessage, bool) {
	if len(s.Messages) == 0 {
		return workout.ChatMessage{}, false
	}
	last := s.Messages[len(s.Messages)-1]
	if last.Role != workout.RoleUser {
		return workout.ChatMessage{}, false
	}
	return last, true
}

func (s *State) AddNotice(level NoticeLevel, text string) {
	s.Notices = append(s.Notices, Notice{Level: level, Text: text})
}

// TakeNotices returns pending notices and clears them.
func (s *State) TakeNotices() []Notice {
	notices := s.Notices
	s.Notices = nil
	return notices
}
