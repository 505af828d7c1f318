package session

import (
	"context"
	"time"

	"codeberg.org/snonux/polyglot/internal/languages"
)

// Entry is one completed request, handed to a Recorder
type Entry struct {
	SessionID string
	Kind      Kind
	Language  languages.Language
	Input     string // Prompt subject: language label, phrase or photo name
	Output    string // Words joined by newlines, or the translation
	Failed    bool
	Reason    string // Failure reason, empty on success
	Time      time.Time
}

// Recorder receives every applied request outcome. It is a write-only sink;
// nothing it stores is used to answer requests.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// RecorderFunc adapts a function to a Recorder
type RecorderFunc func(ctx context.Context, entry Entry) error

// Record calls f
func (f RecorderFunc) Record(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}
