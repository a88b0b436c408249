package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	defer store.Close()

	sess, err := store.Start(42, "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)

	got, ok := store.Get(sess.Token)
	require.True(t, ok)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "a@x.com", got.Email)

	store.End(sess.Token)
	_, ok = store.Get(sess.Token)
	assert.False(t, ok, "session must be invalid after End")
}

func TestMemoryStore_UnknownToken(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	defer store.Close()

	_, ok := store.Get("no-such-token")
	assert.False(t, ok)
}

func TestMemoryStore_TokensAreUnique(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	defer store.Close()

	first, err := store.Start(1, "a@x.com")
	require.NoError(t, err)
	second, err := store.Start(1, "a@x.com")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()

	sess, err := store.Start(7, "b@x.com")
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, ok := store.Get(sess.Token)
	assert.False(t, ok, "expired session must not resolve")
}
