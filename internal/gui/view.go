package gui

import (
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/polyglot/internal/photo"
	"codeberg.org/snonux/polyglot/internal/session"
)

const (
	placeholderWord     = "Pick a language to start"
	loadingText         = "Loading..."
	noWordsText         = "No words received"
	placeholderPhotoTxt = "Pick a photo to translate its text"
)

// view is what the window shows for one session state
type view struct {
	Version  uint64
	Language string
	Word     string
	Progress string
	Status   string

	Translation      string
	Photo            photo.Ref
	PhotoText        string
	PhotoTranslation string

	CanListen         bool
	CanNext           bool
	CanTranslate      bool
	CanPickPhoto      bool
	CanTranslatePhoto bool

	ShowTranslate bool
	ShowSpeak     bool
	ShowPhoto     bool
}

// newView derives the widget contents and enabled flags from a snapshot
func newView(s session.State, caps session.Capabilities) view {
	v := view{
		Version:       s.Version,
		Language:      s.Language.Label,
		ShowTranslate: caps.FreeTranslate,
		ShowSpeak:     caps.Speak,
		ShowPhoto:     caps.PhotoTranslate,
	}

	word, hasWord := s.CurrentWord()
	ready := s.VocabularyStatus == session.StatusReady
	switch {
	case s.Loading:
		v.Word = loadingText
	case hasWord:
		v.Word = word
	case ready:
		v.Word = noWordsText
	default:
		v.Word = placeholderWord
	}
	if ready && hasWord {
		v.Progress = fmt.Sprintf("%d / %d", s.Index+1, len(s.Words))
	}

	v.CanListen = caps.Speak && ready && hasWord
	v.CanNext = ready && s.HasNext()

	translating := s.TranslationStatus == session.StatusLoading
	v.CanTranslate = caps.FreeTranslate && strings.TrimSpace(s.Input) != "" && !translating
	v.Translation = s.Translation
	if translating {
		v.Translation = loadingText
	}

	photoBusy := s.PhotoStatus == session.StatusLoading
	v.CanPickPhoto = caps.PhotoTranslate && !photoBusy
	v.CanTranslatePhoto = caps.PhotoTranslate && !s.Photo.IsZero() && !photoBusy
	v.Photo = s.Photo
	v.PhotoText = s.PhotoText
	v.PhotoTranslation = s.PhotoTranslation
	switch {
	case photoBusy:
		v.PhotoTranslation = loadingText
	case s.Photo.IsZero():
		v.PhotoText = placeholderPhotoTxt
	}

	v.Status = statusLine(s)
	return v
}

// statusLine summarizes the latest failure or activity
func statusLine(s session.State) string {
	for _, kind := range []session.Kind{session.KindVocabulary, session.KindTranslation, session.KindPhoto} {
		if s.Status(kind) == session.StatusLoading {
			return fmt.Sprintf("Waiting for %s...", kind)
		}
	}
	if f := s.LastFailure; f != nil && s.Status(f.Kind) == session.StatusFailed {
		return fmt.Sprintf("%s (%s)", f.Marker(), f.Reason)
	}
	return "Ready"
}

// versionGate drops snapshots older than the last one rendered. Listeners
// run outside the session lock, so snapshots of concurrent requests can
// arrive out of order.
type versionGate struct {
	mu   sync.Mutex
	last uint64
	seen bool
}

// admit reports whether a snapshot of version should be rendered
func (g *versionGate) admit(version uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seen && version < g.last {
		return false
	}
	g.last = version
	g.seen = true
	return true
}
