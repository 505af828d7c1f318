package speech

import (
	"context"
	"errors"
	"testing"
)

// mockSpeaker implements Speaker for testing
type mockSpeaker struct {
	name         string
	speakErr     error
	availableErr error
	speakCalls   int
}

func (m *mockSpeaker) Speak(ctx context.Context, text, locale string) error {
	m.speakCalls++
	return m.speakErr
}

func (m *mockSpeaker) Name() string {
	return m.name
}

func (m *mockSpeaker) IsAvailable() error {
	return m.availableErr
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "openai" {
		t.Errorf("Expected provider 'openai', got '%s'", config.Provider)
	}
	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("Expected OpenAI model 'gpt-4o-mini-tts', got '%s'", config.OpenAIModel)
	}
	if config.OpenAIVoice != "alloy" {
		t.Errorf("Expected OpenAI voice 'alloy', got '%s'", config.OpenAIVoice)
	}
	if config.OpenAISpeed != 1.0 {
		t.Errorf("Expected OpenAI speed 1.0, got %f", config.OpenAISpeed)
	}
	if config.ESpeak == nil {
		t.Error("Expected espeak-ng defaults")
	}
}

func TestNewSpeaker(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantNil  bool
		wantErr  bool
		errMsg   string
		wantName string
	}{
		{
			name:    "disabled",
			config:  &Config{Provider: "none"},
			wantNil: true,
		},
		{
			name:    "openai without key and no fallback",
			config:  &Config{Provider: "openai"},
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name:     "openai with key",
			config:   &Config{Provider: "openai", OpenAIKey: "test-key", Player: &recordingPlayer{}},
			wantName: "openai",
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "unknown"},
			wantErr: true,
			errMsg:  "unknown speech provider: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speaker, err := NewSpeaker(tt.config)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				if err.Error() != tt.errMsg {
					t.Errorf("Expected error '%s', got '%s'", tt.errMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.wantNil {
				if speaker != nil {
					t.Errorf("Expected no speaker, got %s", speaker.Name())
				}
				return
			}
			if speaker.Name() != tt.wantName {
				t.Errorf("Expected speaker %s, got %s", tt.wantName, speaker.Name())
			}
		})
	}
}

func TestSpeakerWithFallback(t *testing.T) {
	tests := []struct {
		name          string
		primaryErr    error
		fallbackErr   error
		wantErr       bool
		primaryCalls  int
		fallbackCalls int
	}{
		{
			name:          "primary succeeds",
			primaryCalls:  1,
			fallbackCalls: 0,
		},
		{
			name:          "primary fails, fallback succeeds",
			primaryErr:    errors.New("primary failed"),
			primaryCalls:  1,
			fallbackCalls: 1,
		},
		{
			name:          "both fail",
			primaryErr:    errors.New("primary failed"),
			fallbackErr:   errors.New("fallback failed"),
			wantErr:       true,
			primaryCalls:  1,
			fallbackCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &mockSpeaker{name: "primary", speakErr: tt.primaryErr}
			fallback := &mockSpeaker{name: "fallback", speakErr: tt.fallbackErr}

			speaker := NewSpeakerWithFallback(primary, fallback, nil)
			err := speaker.Speak(context.Background(), "hola", "es")

			if (err != nil) != tt.wantErr {
				t.Errorf("Speak() error = %v, wantErr %v", err, tt.wantErr)
			}
			if primary.speakCalls != tt.primaryCalls {
				t.Errorf("Expected %d primary calls, got %d", tt.primaryCalls, primary.speakCalls)
			}
			if fallback.speakCalls != tt.fallbackCalls {
				t.Errorf("Expected %d fallback calls, got %d", tt.fallbackCalls, fallback.speakCalls)
			}
		})
	}
}

func TestSpeakerWithFallback_CanceledContext(t *testing.T) {
	primary := &mockSpeaker{name: "primary", speakErr: context.Canceled}
	fallback := &mockSpeaker{name: "fallback"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	speaker := NewSpeakerWithFallback(primary, fallback, nil)
	if err := speaker.Speak(ctx, "hola", "es"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if fallback.speakCalls != 0 {
		t.Error("Fallback must not run after cancellation")
	}
}

func TestSpeakerWithFallback_Name(t *testing.T) {
	speaker := NewSpeakerWithFallback(&mockSpeaker{name: "openai"}, &mockSpeaker{name: "espeak-ng"}, nil)
	if speaker.Name() != "openai (fallback: espeak-ng)" {
		t.Errorf("Unexpected name: %s", speaker.Name())
	}
}

func TestSpeakerWithFallback_IsAvailable(t *testing.T) {
	tests := []struct {
		name        string
		primaryErr  error
		fallbackErr error
		wantErr     bool
	}{
		{"both available", nil, nil, false},
		{"primary only", nil, errors.New("missing"), false},
		{"fallback only", errors.New("missing"), nil, false},
		{"none", errors.New("missing"), errors.New("missing"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speaker := NewSpeakerWithFallback(
				&mockSpeaker{name: "p", availableErr: tt.primaryErr},
				&mockSpeaker{name: "f", availableErr: tt.fallbackErr},
				nil,
			)
			if err := speaker.IsAvailable(); (err != nil) != tt.wantErr {
				t.Errorf("IsAvailable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
