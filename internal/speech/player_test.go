package speech

import (
	"errors"
	"reflect"
	"testing"
)

func TestCommandPlayer_Command(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		wantName  string
		wantArgs  []string
		wantErr   bool
	}{
		{
			name:     "macOS",
			goos:     "darwin",
			wantName: "afplay",
			wantArgs: []string{"word.mp3"},
		},
		{
			name:      "linux prefers mpg123",
			goos:      "linux",
			installed: []string{"aplay", "mpg123", "ffplay"},
			wantName:  "mpg123",
			wantArgs:  []string{"-q", "word.mp3"},
		},
		{
			name:      "linux falls back to ffplay",
			goos:      "linux",
			installed: []string{"ffplay", "paplay"},
			wantName:  "ffplay",
			wantArgs:  []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "word.mp3"},
		},
		{
			name:      "linux with paplay only",
			goos:      "linux",
			installed: []string{"paplay"},
			wantName:  "paplay",
			wantArgs:  []string{"word.mp3"},
		},
		{
			name:    "linux without players",
			goos:    "linux",
			wantErr: true,
		},
		{
			name:    "unsupported platform",
			goos:    "plan9",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &CommandPlayer{
				goos: tt.goos,
				lookPath: func(file string) (string, error) {
					for _, name := range tt.installed {
						if name == file {
							return "/usr/bin/" + file, nil
						}
					}
					return "", errors.New("not found")
				},
			}

			name, args, err := player.command("word.mp3")
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if name != tt.wantName {
				t.Errorf("Expected player %s, got %s", tt.wantName, name)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("Expected args %v, got %v", tt.wantArgs, args)
			}
		})
	}
}
