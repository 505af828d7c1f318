package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"codeberg.org/snonux/polyglot/internal"
	"codeberg.org/snonux/polyglot/internal/languages"
)

// OpenAISpeaker synthesizes speech with OpenAI TTS and plays the result
type OpenAISpeaker struct {
	client *openai.Client
	config *Config
	player Player
	logger *zap.Logger
}

// NewOpenAISpeaker creates a new OpenAI TTS speaker
func NewOpenAISpeaker(config *Config) (*OpenAISpeaker, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIURL != "" {
		clientConfig.BaseURL = config.OpenAIURL
	}

	player := config.Player
	if player == nil {
		player = NewCommandPlayer()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAISpeaker{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		player: player,
		logger: logger,
	}, nil
}

// Speak synthesizes text into a temporary MP3 and plays it
func (s *OpenAISpeaker) Speak(ctx context.Context, text, locale string) error {
	if err := ValidateText(text, locale); err != nil {
		return err
	}

	audioFile, err := s.Synthesize(ctx, text, locale)
	if err != nil {
		return err
	}
	defer os.Remove(audioFile)

	return s.player.Play(ctx, audioFile)
}

// Synthesize writes the speech for text to a file in the temp dir and
// returns its path
func (s *OpenAISpeaker) Synthesize(ctx context.Context, text, locale string) (string, error) {
	text = cleanText(text)

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.config.OpenAIModel),
		Input:          text,
		Voice:          openai.SpeechVoice(s.config.OpenAIVoice),
		Speed:          s.config.OpenAISpeed,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	}
	if s.supportsInstructions() {
		req.Instructions = s.instruction(locale)
	}

	s.logger.Debug("OpenAI TTS request",
		zap.String("model", s.config.OpenAIModel),
		zap.String("voice", s.config.OpenAIVoice),
		zap.String("locale", locale),
		zap.String("input", text),
	)

	response, err := s.client.CreateSpeech(ctx, req)
	if err != nil {
		// Check if it's a model access error
		if strings.Contains(err.Error(), "does not have access to model") && s.supportsInstructions() {
			return "", fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try using --voice-model tts-1-hd instead", err, s.config.OpenAIModel)
		}
		return "", fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	if err := os.MkdirAll(s.config.TempDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// Same word and locale map to the same file name
	outputFile := filepath.Join(s.config.TempDir, internal.ShortHash(locale+"|"+text)+".mp3")
	out, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, response)
	if err != nil {
		os.Remove(outputFile)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		os.Remove(outputFile)
		return "", fmt.Errorf("no audio data received from OpenAI")
	}

	return outputFile, nil
}

// Name returns the speaker name
func (s *OpenAISpeaker) Name() string {
	return "openai"
}

// IsAvailable checks if the OpenAI API is configured
func (s *OpenAISpeaker) IsAvailable() error {
	if s.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	// A test call would cost credits, a key is all we check
	return nil
}

func (s *OpenAISpeaker) supportsInstructions() bool {
	return s.config.OpenAIInstruction != "" &&
		(s.config.OpenAIModel == "gpt-4o-mini-tts" || s.config.OpenAIModel == "gpt-4o-mini-audio-preview")
}

// instruction fills the language name into the configured instruction
func (s *OpenAISpeaker) instruction(locale string) string {
	name := locale
	if lang, err := languages.Lookup(locale); err == nil {
		name = lang.Label
	}
	if !strings.Contains(s.config.OpenAIInstruction, "%s") {
		return s.config.OpenAIInstruction
	}
	return fmt.Sprintf(s.config.OpenAIInstruction, name)
}

// cleanText removes punctuation that shouldn't be spoken
func cleanText(text string) string {
	cleaned := strings.TrimSpace(text)
	for _, punct := range []string{"!", "?", "¡", "¿", ".", ",", ";", ":", "\"", "(", ")", "[", "]", "{", "}", "。", "、", "！", "？"} {
		cleaned = strings.ReplaceAll(cleaned, punct, "")
	}
	return strings.TrimSpace(cleaned)
}
