package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"WordCount", flags.WordCount, 10},
		{"ChatBackend", flags.ChatBackend, "hub"},
		{"ChatTimeout", flags.ChatTimeout, time.Duration(0)},
		{"SpeechProvider", flags.SpeechProvider, "openai"},
		{"SpeechVoice", flags.SpeechVoice, "alloy"},
		{"JournalDriver", flags.JournalDriver, "sqlite3"},
		{"HistoryLimit", flags.HistoryLimit, 20},
		{"ServerAddr", flags.ServerAddr, ":8080"},
		{"DeckName", flags.DeckName, "Polyglot Vocabulary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Verbose", flags.Verbose},
		{"ListModels", flags.ListModels},
		{"Breaker", flags.Breaker},
		{"NoJournal", flags.NoJournal},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	// Test string defaults (should be empty)
	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"ChatURL", flags.ChatURL},
		{"ChatModel", flags.ChatModel},
		{"JournalDSN", flags.JournalDSN},
		{"TargetLanguage", flags.TargetLanguage},
		{"BatchFile", flags.BatchFile},
		{"BotToken", flags.BotToken},
		{"AnkiFile", flags.AnkiFile},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}
}
