package journal

import (
	"context"

	"codeberg.org/snonux/polyglot/internal/session"
)

// Recorder feeds session outcomes into the journal
type Recorder struct {
	store *Store
}

// NewRecorder creates a session.Recorder backed by store
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// Record implements session.Recorder
func (r *Recorder) Record(ctx context.Context, e session.Entry) error {
	return r.store.Record(ctx, Entry{
		SessionID: e.SessionID,
		Kind:      e.Kind.String(),
		Language:  e.Language.Label,
		Input:     e.Input,
		Output:    e.Output,
		Failed:    e.Failed,
		Reason:    e.Reason,
		CreatedAt: e.Time,
	})
}

var _ session.Recorder = (*Recorder)(nil)
