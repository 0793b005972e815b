package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, id string) error
}

func NewID() string {
	return uuid.NewString()
}

func marshalState(state *State) ([]byte, error) {
	if state == nil {
		return nil, errors.New("state is nil")
	}
	if state.ID == "" {
		return nil, errors.New("state id empty")
	}
	stateJson, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return stateJson, nil
}

func unmarshalState(stateJson []byte) (*State, error) {
	state := &State{}
	if err := json.Unmarshal(stateJson, state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return state, nil
}

// CookieName is the cookie carrying the session id in the web presentation.
const CookieName = "vibefit_session"

// IDFromRequest returns the session id carried by the request cookie, if any.
func IDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
