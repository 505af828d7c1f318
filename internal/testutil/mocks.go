package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/polyglot/internal/chat"
	"codeberg.org/snonux/polyglot/internal/photo"
)

// MockCompleter mocks a chat backend
type MockCompleter struct {
	// Responses are returned in order; the last one repeats
	Responses []string
	// Err is returned instead of a response when set
	Err error
	// Handler overrides Responses and Err when set
	Handler func(ctx context.Context, messages []chat.Message) (string, error)

	mu    sync.Mutex
	calls [][]chat.Message
}

// Complete records the call and returns the scripted answer
func (m *MockCompleter) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	n := len(m.calls)
	handler := m.Handler
	m.mu.Unlock()

	if handler != nil {
		return handler(ctx, messages)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	if n > len(m.Responses) {
		n = len(m.Responses)
	}
	return m.Responses[n-1], nil
}

// Name returns the mock backend name
func (m *MockCompleter) Name() string {
	return "mock"
}

// Calls returns a copy of the recorded prompts
func (m *MockCompleter) Calls() [][]chat.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]chat.Message, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of Complete calls
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// SpeakCall is one recorded Speak invocation
type SpeakCall struct {
	Text   string
	Locale string
}

// MockSpeaker mocks a text-to-speech collaborator
type MockSpeaker struct {
	Err error

	// Spoken receives every call; it is buffered so Speak never blocks
	Spoken chan SpeakCall
}

// NewMockSpeaker creates a speaker with a buffered call channel
func NewMockSpeaker() *MockSpeaker {
	return &MockSpeaker{Spoken: make(chan SpeakCall, 16)}
}

// Speak records the call
func (m *MockSpeaker) Speak(ctx context.Context, text, locale string) error {
	m.Spoken <- SpeakCall{Text: text, Locale: locale}
	return m.Err
}

// Name returns the mock speaker name
func (m *MockSpeaker) Name() string {
	return "mock"
}

// IsAvailable always reports the mock as usable
func (m *MockSpeaker) IsAvailable() error {
	return nil
}

// MockPicker mocks the photo picker
type MockPicker struct {
	Ref   photo.Ref
	Err   error
	Calls int
}

// Pick returns the scripted reference
func (m *MockPicker) Pick(ctx context.Context) (photo.Ref, error) {
	m.Calls++
	if m.Err != nil {
		return photo.Ref{}, m.Err
	}
	return m.Ref, nil
}

// MockExtractor mocks text extraction from photos
type MockExtractor struct {
	Text  string
	Err   error
	Calls []photo.Ref
}

// Extract returns the scripted text
func (m *MockExtractor) Extract(ctx context.Context, ref photo.Ref) (string, error) {
	m.Calls = append(m.Calls, ref)
	if m.Err != nil {
		return "", m.Err
	}
	if m.Text == "" {
		return fmt.Sprintf("text from %s", ref.Name()), nil
	}
	return m.Text, nil
}
