package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/vibefit/internal/coach"
)

// Manager creates sessions once and hands them out for the rest of their life.
type Manager struct {
	store           Store
	newConversation func() *coach.Conversation
	// Now can be replaced in tests
	Now func() time.Time
}

func NewManager(store Store, newConversation func() *coach.Conversation) *Manager {
	return &Manager{
		store:           store,
		newConversation: newConversation,
		Now:             time.Now,
	}
}

// GetOrCreate loads the session with the given id. Empty or unknown ids get a
// fresh session under a new id; created reports whether that happened.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (_ *State, created bool, err error) {
	if id != "" {
		state, err := m.store.Load(ctx, id)
		switch {
		case err == nil:
			state.ConversationOrCreate(m.newConversation)
			return state, false, nil
		case errors.Is(err, ErrSessionNotFound):
			log.Debugf("session [%s] not found, starting a new one", id)
		default:
			return nil, false, fmt.Errorf("load session: %w", err)
		}
	}

	state := m.create(NewID())
	if err := m.store.Save(ctx, state); err != nil {
		return nil, false, fmt.Errorf("save new session: %w", err)
	}
	return state, true, nil
}

// GetOrCreateWithID is GetOrCreate for callers that own a fixed session id.
func (m *Manager) GetOrCreateWithID(ctx context.Context, id string) (*State, error) {
	state, err := m.store.Load(ctx, id)
	if err == nil {
		state.ConversationOrCreate(m.newConversation)
		return state, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	state = m.create(id)
	if err := m.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save new session: %w", err)
	}
	return state, nil
}

func (m *Manager) Save(ctx context.Context, state *State) error {
	return m.store.Save(ctx, state)
}

// Reset ends the session with the given id and starts a new one in its place.
func (m *Manager) Reset(ctx context.Context, id string) (*State, error) {
	if err := m.store.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}
	state := m.create(id)
	if err := m.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save new session: %w", err)
	}
	return state, nil
}

func (m *Manager) create(id string) *State {
	state := NewState(id, m.Now())
	state.ConversationOrCreate(m.newConversation)
	return state
}
