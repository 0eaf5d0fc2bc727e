package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/viva-cli/internal/core/domain"
)

func TestSessionStore_PutAndGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := &domain.Session{
		ID:        "sess-1",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Put(ctx, session))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestSessionStore_Get_NotFound(t *testing.T) {
	store := NewSessionStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_Put_Invalid(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Put(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Put(ctx, &domain.Session{}), domain.ErrInvalidInput)
}

func TestSessionStore_Put_Replaces(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &domain.Session{ID: "sess-1"}))

	updated := &domain.Session{
		ID:      "sess-1",
		History: []domain.Turn{{Question: "q", Answer: "a"}},
	}
	require.NoError(t, store.Put(ctx, updated))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, got.History, 1)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &domain.Session{ID: "sess-1"}))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is a no-op
	require.NoError(t, store.Delete(ctx, "sess-1"))
}
