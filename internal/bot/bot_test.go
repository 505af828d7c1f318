package bot

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/ocr"
	"codeberg.org/snonux/polyglot/internal/photo"
	"codeberg.org/snonux/polyglot/internal/session"
	"codeberg.org/snonux/polyglot/internal/testutil"
)

// fakeContext implements the parts of tele.Context the handlers use
type fakeContext struct {
	tele.Context

	chat    *tele.Chat
	text    string
	args    []string
	data    string
	message *tele.Message
	editErr error

	sent      []string
	markups   []*tele.ReplyMarkup
	edited    []string
	responses []*tele.CallbackResponse
}

func newFakeContext(chatID int64, text string, args ...string) *fakeContext {
	return &fakeContext{chat: &tele.Chat{ID: chatID}, text: text, args: args}
}

func (c *fakeContext) Chat() *tele.Chat       { return c.chat }
func (c *fakeContext) Text() string           { return c.text }
func (c *fakeContext) Args() []string         { return c.args }
func (c *fakeContext) Data() string           { return c.data }
func (c *fakeContext) Message() *tele.Message { return c.message }

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, what.(string))
	for _, opt := range opts {
		if m, ok := opt.(*tele.ReplyMarkup); ok {
			c.markups = append(c.markups, m)
		}
	}
	return nil
}

func (c *fakeContext) Edit(what interface{}, opts ...interface{}) error {
	if c.editErr != nil {
		return c.editErr
	}
	c.edited = append(c.edited, what.(string))
	return nil
}

func (c *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	c.responses = append(c.responses, resp...)
	return nil
}

func (c *fakeContext) lastSent(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.sent)
	return c.sent[len(c.sent)-1]
}

func newTestHandler(t *testing.T, completer *testutil.MockCompleter) *Handler {
	t.Helper()
	factory := func(config *session.Config) *session.Controller {
		config.Extractor = ocr.Placeholder{}
		return session.New(completer, config)
	}
	store := photo.NewStore(&photo.StoreOptions{Dir: t.TempDir(), MaxSizeBytes: 1024})
	h := NewHandler(factory, store, nil)
	t.Cleanup(h.Close)
	return h
}

func TestCleanCallbackData(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal string", "fr", "fr"},
		{"string with whitespace", "  de  ", "de"},
		{"string with unprintable characters", "\fja\x00", "ja"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanCallbackData(tt.input))
		})
	}
}

func TestFormatWord(t *testing.T) {
	french := languages.Language{Label: "French", Code: "fr"}

	tests := []struct {
		name     string
		state    session.State
		expected string
	}{
		{
			name:     "no words",
			state:    session.State{Language: french},
			expected: "No French words yet. Use /learn French",
		},
		{
			name:     "second word",
			state:    session.State{Language: french, Words: []string{"un", "deux", "trois"}, Index: 1},
			expected: "French 2/3: deux",
		},
		{
			name: "failed fetch",
			state: session.State{
				Language:         french,
				Words:            []string{"Error fetching words."},
				VocabularyStatus: session.StatusFailed,
				LastFailure:      &session.RequestFailure{Kind: session.KindVocabulary},
			},
			expected: "Error fetching words.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatWord(tt.state))
		})
	}
}

func TestFormatTranslation(t *testing.T) {
	german := languages.Language{Label: "German", Code: "de"}

	assert.Equal(t, "German: Hallo", formatTranslation(german, session.Result[string]{Value: "Hallo"}))
	assert.Equal(t, "(empty translation)", formatTranslation(german, session.Result[string]{}))

	failed := session.Result[string]{Failure: &session.RequestFailure{Kind: session.KindTranslation}}
	assert.Equal(t, "Error translating word.", formatTranslation(german, failed))
}

func TestMarkups(t *testing.T) {
	menu := languagesMarkup()
	require.Len(t, menu.InlineKeyboard, 5)
	assert.Equal(t, "Spanish", menu.InlineKeyboard[0][0].Text)
	assert.Equal(t, "ja", menu.InlineKeyboard[4][0].Data)

	assert.Empty(t, nextMarkup(session.State{Words: []string{"a"}}).InlineKeyboard)
	assert.Len(t, nextMarkup(session.State{Words: []string{"a", "b"}}).InlineKeyboard, 1)
}

func TestSessionPerChat(t *testing.T) {
	h := newTestHandler(t, &testutil.MockCompleter{})

	a := h.Session(1)
	assert.Same(t, a, h.Session(1))
	assert.NotSame(t, a, h.Session(2))
}

func TestLearnAndNext(t *testing.T) {
	completer := &testutil.MockCompleter{Responses: []string{"eins\nzwei"}}
	h := newTestHandler(t, completer)

	c := newFakeContext(42, "/learn german", "german")
	require.NoError(t, h.handleLearn(c))
	assert.Equal(t, "German 1/2: eins", c.lastSent(t))
	assert.Equal(t, "Give me a list of 10 basic words in German.", completer.Calls()[0][1].Content)

	c = newFakeContext(42, "/next")
	require.NoError(t, h.handleNext(c))
	assert.Equal(t, "German 2/2: zwei", c.lastSent(t))

	// Stays on the last word
	require.NoError(t, h.handleNext(c))
	assert.Equal(t, "German 2/2: zwei", c.lastSent(t))
}

func TestLearn_Usage(t *testing.T) {
	completer := &testutil.MockCompleter{}
	h := newTestHandler(t, completer)

	c := newFakeContext(1, "/learn")
	require.NoError(t, h.handleLearn(c))
	assert.Equal(t, "Usage: /learn <language>", c.lastSent(t))

	c = newFakeContext(1, "/learn klingon", "klingon")
	require.NoError(t, h.handleLearn(c))
	assert.Contains(t, c.lastSent(t), "unsupported language")
	assert.Equal(t, 0, completer.CallCount())
}

func TestLearn_Failure(t *testing.T) {
	h := newTestHandler(t, &testutil.MockCompleter{Err: errors.New("boom")})

	c := newFakeContext(1, "/learn fr", "fr")
	require.NoError(t, h.handleLearn(c))
	assert.Equal(t, "Error fetching words.", c.lastSent(t))
}

func TestLanguageButton(t *testing.T) {
	h := newTestHandler(t, &testutil.MockCompleter{Responses: []string{"猫\n犬"}})

	c := newFakeContext(7, "")
	c.data = "ja"
	require.NoError(t, h.handleLanguageButton(c))
	require.Len(t, c.responses, 1)
	assert.Equal(t, "Fetching Japanese words...", c.responses[0].Text)
	assert.Equal(t, "Japanese 1/2: 猫", c.lastSent(t))

	c = newFakeContext(7, "")
	c.data = "xx"
	require.NoError(t, h.handleLanguageButton(c))
	assert.Equal(t, "Unknown language", c.responses[0].Text)
	assert.Empty(t, c.sent)
}

func TestNextButton(t *testing.T) {
	h := newTestHandler(t, &testutil.MockCompleter{Responses: []string{"uno\ndos"}})
	require.NoError(t, h.handleLearn(newFakeContext(3, "/learn es", "es")))

	c := newFakeContext(3, "")
	require.NoError(t, h.handleNextButton(c))
	assert.Equal(t, []string{"Spanish 2/2: dos"}, c.edited)
	assert.Empty(t, c.sent)

	c = newFakeContext(3, "")
	c.editErr = errors.New("telegram: message is not modified")
	require.NoError(t, h.handleNextButton(c))
	assert.Empty(t, c.sent)

	c = newFakeContext(3, "")
	c.editErr = errors.New("message to edit not found")
	require.NoError(t, h.handleNextButton(c))
	assert.Equal(t, "Spanish 2/2: dos", c.lastSent(t))
}

func TestTranslate(t *testing.T) {
	completer := &testutil.MockCompleter{Responses: []string{"Bonjour"}}
	h := newTestHandler(t, completer)
	h.Session(5).SelectLanguage(t.Context(), languages.Language{Label: "French", Code: "fr"})

	c := newFakeContext(5, "/translate hello", "hello")
	require.NoError(t, h.handleTranslate(c))
	assert.Equal(t, "French: Bonjour", c.lastSent(t))
	assert.Equal(t, `Translate the word "hello" to French.`, completer.Calls()[1][1].Content)

	c = newFakeContext(5, "/translate")
	require.NoError(t, h.handleTranslate(c))
	assert.Equal(t, "Usage: /translate <text>", c.lastSent(t))
}

func TestText(t *testing.T) {
	completer := &testutil.MockCompleter{Responses: []string{"Hola"}}
	h := newTestHandler(t, completer)

	c := newFakeContext(9, "  hello  ")
	require.NoError(t, h.handleText(c))
	assert.Equal(t, "Spanish: Hola", c.lastSent(t))

	c = newFakeContext(9, "/unknown")
	require.NoError(t, h.handleText(c))
	assert.Equal(t, helpText, c.lastSent(t))
	assert.Equal(t, 1, completer.CallCount())
}

func TestPhoto(t *testing.T) {
	completer := &testutil.MockCompleter{Responses: []string{"Texto de ejemplo"}}
	h := newTestHandler(t, completer)

	var requested *tele.File
	h.download = func(file *tele.File) (io.ReadCloser, error) {
		requested = file
		return io.NopCloser(bytes.NewReader(testutil.PNGHeader)), nil
	}

	c := newFakeContext(11, "")
	c.message = &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "file-1", UniqueID: "u1"}}}
	require.NoError(t, h.handlePhoto(c))

	require.NotNil(t, requested)
	assert.Equal(t, "file-1", requested.FileID)
	assert.Equal(t, "Spanish: Texto de ejemplo", c.lastSent(t))
	assert.Equal(t, `Translate the word "`+ocr.PlaceholderText+`" to Spanish.`, completer.Calls()[0][1].Content)
	assert.Equal(t, ocr.PlaceholderText, h.Session(11).State().PhotoText)
}

func TestPhoto_Rejected(t *testing.T) {
	completer := &testutil.MockCompleter{}
	h := newTestHandler(t, completer)
	h.download = func(file *tele.File) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("plain text"))), nil
	}

	c := newFakeContext(12, "")
	c.message = &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: "f", UniqueID: "u"}}}
	require.NoError(t, h.handlePhoto(c))
	assert.Equal(t, "That does not look like a usable photo.", c.lastSent(t))
	assert.Equal(t, 0, completer.CallCount())

	h.download = func(file *tele.File) (io.ReadCloser, error) {
		return nil, errors.New("network down")
	}
	require.NoError(t, h.handlePhoto(c))
	assert.Equal(t, "Could not download the photo.", c.lastSent(t))
}

func TestExpireSessions(t *testing.T) {
	h := newTestHandler(t, &testutil.MockCompleter{Responses: []string{"Hola"}})

	idle := h.Session(21)
	assert.Equal(t, 0, h.ExpireSessions(time.Hour))
	assert.Same(t, idle, h.Session(21))

	assert.Equal(t, 1, h.ExpireSessions(-time.Minute))
	_, err := idle.Translate(t.Context(), "hello")
	assert.ErrorIs(t, err, session.ErrClosed)

	// The chat starts over with a new session
	assert.NotSame(t, idle, h.Session(21))
}

func TestPhoto_Released(t *testing.T) {
	h := newTestHandler(t, &testutil.MockCompleter{Responses: []string{"Texto"}})
	h.download = func(file *tele.File) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(testutil.PNGHeader)), nil
	}

	send := func(unique string) {
		c := newFakeContext(31, "")
		c.message = &tele.Message{Photo: &tele.Photo{File: tele.File{FileID: unique, UniqueID: unique}}}
		require.NoError(t, h.handlePhoto(c))
	}
	files := func() []os.DirEntry {
		entries, err := os.ReadDir(h.photos.Dir())
		require.NoError(t, err)
		return entries
	}

	send("first")
	send("second")
	entries := files()
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "second_"), entries[0].Name())

	assert.Equal(t, 1, h.ExpireSessions(-time.Minute))
	assert.Empty(t, files())
}
