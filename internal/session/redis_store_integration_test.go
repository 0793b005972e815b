package session

import (
	"testing"
	"time"

	vtesting "github.com/2beens/vibefit/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Integration(t *testing.T) {
	ctx, rdb := vtesting.GetRedisClientAndCtx(t)
	store := NewRedisStore(rdb, time.Minute)

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	state := newTestState("integration")
	require.NoError(t, store.Save(ctx, state))

	ttl, err := rdb.TTL(ctx, sessionKey("integration")).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl: %s", ttl)

	loaded, err := store.Load(ctx, "integration")
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	manager := NewManager(store, newTestConversation)
	got, err := manager.GetOrCreateWithID(ctx, "integration")
	require.NoError(t, err)
	assert.Equal(t, state.Entries, got.Entries)

	require.NoError(t, store.Delete(ctx, "integration"))
	_, err = store.Load(ctx, "integration")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
