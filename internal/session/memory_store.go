package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
)

// freecache rejects entries larger than 1/1024 of its size, so the default
// leaves 128 KB per serialized session.
const defaultMemoryStoreSize = 128 * 1024 * 1024

// MemoryStore keeps serialized sessions in a process-local freecache.
// Sessions are lost on restart.
type MemoryStore struct {
	cache     *freecache.Cache
	expireSec int
}

func NewMemoryStore(sizeBytes int, ttl time.Duration) *MemoryStore {
	if sizeBytes <= 0 {
		sizeBytes = defaultMemoryStoreSize
	}
	return &MemoryStore{
		cache:     freecache.NewCache(sizeBytes),
		expireSec: int(ttl / time.Second),
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*State, error) {
	stateJson, err := s.cache.Get([]byte(id))
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("memory store get: %w", err)
	}
	return unmarshalState(stateJson)
}

func (s *MemoryStore) Save(_ context.Context, state *State) error {
	stateJson, err := marshalState(state)
	if err != nil {
		return err
	}
	if err := s.cache.Set([]byte(state.ID), stateJson, s.expireSec); err != nil {
		if errors.Is(err, freecache.ErrLargeEntry) {
			return fmt.Errorf("memory store set: session [%s] is %d bytes: %w", state.ID, len(stateJson), err)
		}
		return fmt.Errorf("memory store set: %w", err)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Del([]byte(id))
	return nil
}
