package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Speaker says text in a locale
type Speaker interface {
	// Speak says text and returns once playback finished
	Speak(ctx context.Context, text, locale string) error

	// Name returns the speaker name
	Name() string

	// IsAvailable checks if the speaker is properly configured and available
	IsAvailable() error
}

// Config holds configuration for speakers
type Config struct {
	Provider string // "openai", "espeak" or "none"
	Fallback bool   // Fall back to espeak-ng when OpenAI fails
	TempDir  string // Where synthesized audio is written before playback

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIURL         string  // Base URL override
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts, %s is the language

	ESpeak *ESpeakConfig

	Player Player
	Logger *zap.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:          "openai",
		Fallback:          true,
		TempDir:           filepath.Join(os.TempDir(), "polyglot-speech"),
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are speaking %s. Pronounce the word with authentic native phonetics. Speak slowly and clearly for language learners.",
		ESpeak:            DefaultESpeakConfig(),
	}
}

// NewSpeaker creates the speaker named in config. It returns nil and no
// error for provider "none".
func NewSpeaker(config *Config) (Speaker, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Player == nil {
		config.Player = NewCommandPlayer()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	switch strings.ToLower(config.Provider) {
	case "none", "off":
		return nil, nil

	case "espeak", "espeak-ng":
		return NewESpeakSpeaker(config.ESpeak)

	case "", "openai":
		primary, err := NewOpenAISpeaker(config)
		if err != nil {
			if !config.Fallback {
				return nil, err
			}
			config.Logger.Warn("OpenAI speech unavailable, using espeak-ng", zap.Error(err))
			return NewESpeakSpeaker(config.ESpeak)
		}
		if !config.Fallback {
			return primary, nil
		}
		fallback, err := NewESpeakSpeaker(config.ESpeak)
		if err != nil {
			// No espeak-ng on this machine, OpenAI alone will do
			return primary, nil
		}
		return NewSpeakerWithFallback(primary, fallback, config.Logger), nil

	default:
		return nil, fmt.Errorf("unknown speech provider: %s", config.Provider)
	}
}

// SpeakerWithFallback wraps a primary speaker with a fallback option
type SpeakerWithFallback struct {
	primary  Speaker
	fallback Speaker
	logger   *zap.Logger
}

// NewSpeakerWithFallback creates a speaker that falls back to secondary if primary fails
func NewSpeakerWithFallback(primary, fallback Speaker, logger *zap.Logger) Speaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpeakerWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Speak tries primary speaker first, falls back to secondary on error
func (s *SpeakerWithFallback) Speak(ctx context.Context, text, locale string) error {
	err := s.primary.Speak(ctx, text, locale)
	if err == nil || ctx.Err() != nil {
		return err
	}

	s.logger.Warn("Primary speaker failed, falling back",
		zap.String("primary", s.primary.Name()),
		zap.String("fallback", s.fallback.Name()),
		zap.Error(err),
	)
	return s.fallback.Speak(ctx, text, locale)
}

// Name returns the speaker name
func (s *SpeakerWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", s.primary.Name(), s.fallback.Name())
}

// IsAvailable checks if at least one speaker is available
func (s *SpeakerWithFallback) IsAvailable() error {
	primaryErr := s.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := s.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both speakers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
