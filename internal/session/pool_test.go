package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/polyglot/internal/testutil"
)

func newPoolSession() *Controller {
	return New(&testutil.MockCompleter{Responses: []string{"hola"}}, nil)
}

func TestPool_GetOrCreate(t *testing.T) {
	p := NewPool[int64]()

	first, created := p.GetOrCreate(42, newPoolSession)
	assert.True(t, created)
	again, created := p.GetOrCreate(42, func() *Controller {
		t.Fatal("create called for an existing key")
		return nil
	})
	assert.False(t, created)
	assert.Same(t, first, again)

	got, ok := p.Get(42)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, p.Len())

	_, ok = p.Get(7)
	assert.False(t, ok)
}

func TestPool_PutReplaces(t *testing.T) {
	p := NewPool[string]()
	old := newPoolSession()
	p.Put("a", old)
	p.Put("a", newPoolSession())

	assert.Equal(t, 1, p.Len())
	_, err := old.Translate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPool_Expire(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewPool[int64]()
	p.now = func() time.Time { return now }

	idle, _ := p.GetOrCreate(1, newPoolSession)
	now = now.Add(20 * time.Minute)
	active, _ := p.GetOrCreate(2, newPoolSession)
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, p.Expire(30*time.Minute))
	_, ok := p.Get(1)
	assert.False(t, ok)
	_, ok = p.Get(2)
	assert.True(t, ok)

	_, err := idle.Translate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = active.Translate(context.Background(), "hi")
	assert.NoError(t, err)

	// Get refreshed the active session
	now = now.Add(29 * time.Minute)
	assert.Equal(t, 0, p.Expire(30*time.Minute))
}

func TestPool_DeleteAndCloseAll(t *testing.T) {
	p := NewPool[string]()
	a := newPoolSession()
	b := newPoolSession()
	p.Put("a", a)
	p.Put("b", b)

	assert.True(t, p.Delete("a"))
	assert.False(t, p.Delete("a"))
	_, err := a.Translate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrClosed)

	p.CloseAll()
	assert.Equal(t, 0, p.Len())
	_, err = b.Translate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrClosed)
}
