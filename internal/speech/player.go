package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Player plays an audio file and returns when playback ended
type Player interface {
	Play(ctx context.Context, audioFile string) error
}

// CommandPlayer plays audio through the platform's command line players
type CommandPlayer struct {
	goos     string
	lookPath func(file string) (string, error)
}

// NewCommandPlayer creates a player for the current platform
func NewCommandPlayer() *CommandPlayer {
	return &CommandPlayer{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
	}
}

// Play runs the player command; canceling ctx stops playback
func (p *CommandPlayer) Play(ctx context.Context, audioFile string) error {
	name, args, err := p.command(audioFile)
	if err != nil {
		return err
	}

	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\nOutput: %s", name, err, string(output))
	}
	return nil
}

// command picks the player binary and its arguments
func (p *CommandPlayer) command(audioFile string) (string, []string, error) {
	switch p.goos {
	case "darwin": // macOS
		return "afplay", []string{audioFile}, nil
	case "linux":
		// mpg123 first since it handles MP3 files best
		candidates := []struct {
			name string
			args []string
		}{
			{"mpg123", []string{"-q", audioFile}},
			{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet", audioFile}},
			{"play", []string{"-q", audioFile}}, // SoX
			{"paplay", []string{audioFile}},
			{"aplay", []string{"-q", audioFile}},
		}
		for _, c := range candidates {
			if _, err := p.lookPath(c.name); err == nil {
				return c.name, c.args, nil
			}
		}
		return "", nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		// Use Windows Media Player
		return "cmd", []string{"/c", "start", "/min", "/wait", audioFile}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", p.goos)
	}
}
