package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/session"
	"codeberg.org/snonux/polyglot/internal/testutil"
)

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)
	recorder := NewRecorder(store)

	now := time.Now()
	err := recorder.Record(ctx, session.Entry{
		SessionID: "s1",
		Kind:      session.KindPhoto,
		Language:  languages.Language{Label: "Japanese", Code: "ja"},
		Input:     "menu.png",
		Output:    "メニュー",
		Time:      now,
	})
	require.NoError(t, err)

	entries, err := store.Recent(ctx, 1, Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "photo", entries[0].Kind)
	assert.Equal(t, "Japanese", entries[0].Language)
	assert.Equal(t, "メニュー", entries[0].Output)
}

func TestRecorder_WithSession(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)

	mock := &testutil.MockCompleter{Responses: []string{"uno\ndos", "gato"}}
	c := session.New(mock, &session.Config{ID: "learner-1", Recorder: NewRecorder(store)})

	_, err := c.FetchVocabulary(ctx, languages.Default())
	require.NoError(t, err)
	_, err = c.Translate(ctx, "cat")
	require.NoError(t, err)

	entries, err := store.Recent(ctx, 10, Filter{SessionID: "learner-1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "translation", entries[0].Kind)
	assert.Equal(t, "gato", entries[0].Output)
	assert.Equal(t, "vocabulary", entries[1].Kind)
}
