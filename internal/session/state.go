package session

import (
	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/photo"
)

// Status is the lifecycle of one request kind
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Capabilities lists what a session can do besides vocabulary stepping
type Capabilities struct {
	Speak          bool
	PhotoTranslate bool
	FreeTranslate  bool
}

// State is a snapshot of a session. Snapshots are copies and safe to keep.
type State struct {
	Version uint64 // Increases with every change

	Language languages.Language
	Words    []string
	Index    int
	Loading  bool

	Input       string
	Translation string

	Photo            photo.Ref
	PhotoText        string
	PhotoTranslation string

	VocabularyStatus  Status
	TranslationStatus Status
	PhotoStatus       Status
	LastFailure       *RequestFailure
}

// CurrentWord returns the word at Index
func (s State) CurrentWord() (string, bool) {
	if s.Index < 0 || s.Index >= len(s.Words) {
		return "", false
	}
	return s.Words[s.Index], true
}

// HasNext reports whether Next would advance
func (s State) HasNext() bool {
	return s.Index < len(s.Words)-1
}

// clone copies the state so callers can't alias the word slice
func (s State) clone() State {
	if s.Words != nil {
		words := make([]string, len(s.Words))
		copy(words, s.Words)
		s.Words = words
	}
	return s
}

// Status returns the status of the given request kind
func (s State) Status(kind Kind) Status {
	switch kind {
	case KindVocabulary:
		return s.VocabularyStatus
	case KindTranslation:
		return s.TranslationStatus
	default:
		return s.PhotoStatus
	}
}
