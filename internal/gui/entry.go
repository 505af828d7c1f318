package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// maxPhrases bounds the recall list of PhraseEntry
const maxPhrases = 50

// PhraseEntry is the input line for free translation. Enter submits the
// phrase, Up and Down recall phrases translated earlier, and Escape clears
// the line before a second Escape leaves it.
type PhraseEntry struct {
	widget.Entry
	phrases  phraseHistory
	onEscape func()
}

// NewPhraseEntry creates the single-line translation input
func NewPhraseEntry() *PhraseEntry {
	entry := &PhraseEntry{phrases: phraseHistory{max: maxPhrases}}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *PhraseEntry) TypedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyEscape:
		if e.Text != "" {
			e.SetText("")
			return
		}
		if e.onEscape != nil {
			e.onEscape()
		}
		return
	case fyne.KeyUp:
		if text, ok := e.phrases.older(e.Text); ok {
			e.recall(text)
		}
		return
	case fyne.KeyDown:
		if text, ok := e.phrases.newer(); ok {
			e.recall(text)
		}
		return
	}
	e.Entry.TypedKey(key)
}

// recall replaces the text and moves the cursor to its end; OnChanged fires
// so the session sees the recalled phrase
func (e *PhraseEntry) recall(text string) {
	e.SetText(text)
	e.CursorColumn = len([]rune(text))
	e.Refresh()
}

// Remember adds a translated phrase to the recall list
func (e *PhraseEntry) Remember(text string) {
	e.phrases.add(text)
}

// SetOnEscape sets the callback for an Escape on an empty line
func (e *PhraseEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

// phraseHistory remembers submitted phrases, newest last, without repeats
type phraseHistory struct {
	items []string
	pos   int    // Recall position, len(items) when not recalling
	draft string // Text typed before recalling started
	max   int
}

// add records a submitted phrase and ends any recall
func (h *phraseHistory) add(text string) {
	text = strings.TrimSpace(text)
	if text != "" {
		for i, item := range h.items {
			if item == text {
				h.items = append(h.items[:i], h.items[i+1:]...)
				break
			}
		}
		h.items = append(h.items, text)
		if h.max > 0 && len(h.items) > h.max {
			h.items = h.items[len(h.items)-h.max:]
		}
	}
	h.pos = len(h.items)
	h.draft = ""
}

// older steps back one phrase; current is kept as the draft when recall starts
func (h *phraseHistory) older(current string) (string, bool) {
	if h.pos > len(h.items) {
		h.pos = len(h.items)
	}
	if h.pos == 0 {
		return "", false
	}
	if h.pos == len(h.items) {
		h.draft = current
	}
	h.pos--
	return h.items[h.pos], true
}

// newer steps forward one phrase, ending at the draft
func (h *phraseHistory) newer() (string, bool) {
	if h.pos >= len(h.items) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.items) {
		return h.draft, true
	}
	return h.items[h.pos], true
}
