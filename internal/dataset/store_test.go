package dataset

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Lifecycle(t *testing.T) {
	store := NewStore(StoreConfig{TTL: time.Hour, MaxSessions: 10}, nil)
	tbl := cityTable(t)

	sess, err := store.Create("cities.csv", tbl)
	require.NoError(t, err)
	_, err = uuid.Parse(sess.ID)
	assert.NoError(t, err, "session ids are uuids")

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, tbl, got.Table)
	assert.Equal(t, "cities.csv", got.Name)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(sess.ID))
	_, err = store.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(sess.ID), ErrSessionNotFound)
}

func TestStore_ExpiresIdleSessions(t *testing.T) {
	store := NewStore(StoreConfig{TTL: time.Minute}, nil)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	stale, err := store.Create("old.csv", cityTable(t))
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	fresh, err := store.Create("new.csv", cityTable(t))
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	_, err = store.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestStore_Full(t *testing.T) {
	store := NewStore(StoreConfig{MaxSessions: 1}, nil)

	_, err := store.Create("a.csv", cityTable(t))
	require.NoError(t, err)

	_, err = store.Create("b.csv", cityTable(t))
	assert.ErrorIs(t, err, ErrStoreFull)
}
