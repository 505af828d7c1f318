package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng
type ESpeakConfig struct {
	Variant   string // Voice variant appended to the language, e.g. "m1" or "f2"
	Speed     int    // Speech speed in words per minute (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns a slow, clear voice for learners
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Speed:     140,
		Pitch:     50,
		Amplitude: 100,
	}
}

// espeakVoices maps locale codes to espeak-ng voice names
var espeakVoices = map[string]string{
	"es": "es",
	"fr": "fr-fr",
	"de": "de",
	"zh": "cmn",
	"ja": "ja",
}

// ESpeakSpeaker speaks through the local espeak-ng engine
type ESpeakSpeaker struct {
	config *ESpeakConfig
	binary string
}

// NewESpeakSpeaker creates an espeak-ng speaker. It fails when espeak-ng is
// not installed.
func NewESpeakSpeaker(config *ESpeakConfig) (*ESpeakSpeaker, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}
	return newESpeakSpeaker(config), nil
}

func newESpeakSpeaker(config *ESpeakConfig) *ESpeakSpeaker {
	if config == nil {
		config = DefaultESpeakConfig()
	}
	return &ESpeakSpeaker{config: config, binary: "espeak-ng"}
}

// Speak says text through the default audio device
func (e *ESpeakSpeaker) Speak(ctx context.Context, text, locale string) error {
	if err := ValidateText(text, locale); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, e.binary, e.args(text, locale)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// args builds the espeak-ng command line
func (e *ESpeakSpeaker) args(text, locale string) []string {
	args := []string{
		"-v", VoiceFor(locale, e.config.Variant),
		"-s", fmt.Sprintf("%d", e.config.Speed),
		"-p", fmt.Sprintf("%d", e.config.Pitch),
		"-a", fmt.Sprintf("%d", e.config.Amplitude),
	}

	// Add word gap if specified
	if e.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", e.config.WordGap))
	}

	// "--" keeps words starting with a dash from being read as flags
	return append(args, "--", text)
}

// Name returns the speaker name
func (e *ESpeakSpeaker) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng is installed
func (e *ESpeakSpeaker) IsAvailable() error {
	return checkESpeakInstalled()
}

// SetSpeed updates the speech speed
func (e *ESpeakSpeaker) SetSpeed(speed int) {
	if speed < 80 {
		speed = 80
	} else if speed > 450 {
		speed = 450
	}
	e.config.Speed = speed
}

// SetPitch updates the pitch (0-99, 50 is default)
func (e *ESpeakSpeaker) SetPitch(pitch int) {
	if pitch < 0 {
		pitch = 0
	} else if pitch > 99 {
		pitch = 99
	}
	e.config.Pitch = pitch
}

// SetAmplitude updates the volume/amplitude (0-200, 100 is default)
func (e *ESpeakSpeaker) SetAmplitude(amplitude int) {
	if amplitude < 0 {
		amplitude = 0
	} else if amplitude > 200 {
		amplitude = 200
	}
	e.config.Amplitude = amplitude
}

// VoiceFor returns the espeak-ng voice for a locale, with an optional variant
func VoiceFor(locale, variant string) string {
	voice, ok := espeakVoices[strings.ToLower(locale)]
	if !ok {
		voice = strings.ToLower(locale)
	}
	if variant != "" {
		voice += "+" + variant
	}
	return voice
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}
