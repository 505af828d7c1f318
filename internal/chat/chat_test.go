package chat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestNewCompleter(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantName string
		wantErr  string
	}{
		{
			name:     "nil config uses hub",
			config:   nil,
			wantName: "hub",
		},
		{
			name:     "empty backend uses hub",
			config:   &Config{},
			wantName: "hub",
		},
		{
			name:     "hub with breaker",
			config:   &Config{Backend: "hub", Breaker: true},
			wantName: "hub (breaker)",
		},
		{
			name:     "openai",
			config:   &Config{Backend: "OpenAI", APIKey: "test-key"},
			wantName: "openai",
		},
		{
			name:    "openai without key",
			config:  &Config{Backend: "openai"},
			wantErr: "OpenAI API key is required",
		},
		{
			name:    "gemini without key",
			config:  &Config{Backend: "gemini"},
			wantErr: "Gemini API key is required",
		},
		{
			name:    "unknown backend",
			config:  &Config{Backend: "carrier-pigeon"},
			wantErr: "unknown chat backend: carrier-pigeon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer, err := NewCompleter(context.Background(), tt.config)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("NewCompleter() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCompleter() unexpected error: %v", err)
			}
			if completer.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", completer.Name(), tt.wantName)
			}
		})
	}
}

func TestNewHub_Defaults(t *testing.T) {
	hub := NewHub(&Config{})
	if hub.url != DefaultHubURL {
		t.Errorf("Expected default URL, got %s", hub.url)
	}
	if hub.model != DefaultModel {
		t.Errorf("Expected default model, got %s", hub.model)
	}
}

func TestNewOpenAI_IgnoresHubURL(t *testing.T) {
	client, err := NewOpenAI(&Config{APIKey: "test-key", URL: DefaultHubURL})
	if err != nil {
		t.Fatalf("NewOpenAI() error: %v", err)
	}
	if client.model != "gpt-4o" {
		t.Errorf("Expected default model gpt-4o, got %s", client.model)
	}
}

func TestGeminiPrompt(t *testing.T) {
	genConfig, contents := geminiPrompt([]Message{
		{Role: RoleSystem, Content: "You are a helpful assistant."},
		{Role: RoleUser, Content: "Translate the word \"cat\" to French."},
		{Role: RoleAssistant, Content: "chat"},
	})

	if genConfig.SystemInstruction == nil || len(genConfig.SystemInstruction.Parts) != 1 {
		t.Fatalf("Expected one system instruction part, got %+v", genConfig.SystemInstruction)
	}
	if genConfig.SystemInstruction.Parts[0].Text != "You are a helpful assistant." {
		t.Errorf("Unexpected system instruction: %q", genConfig.SystemInstruction.Parts[0].Text)
	}
	if len(contents) != 2 {
		t.Fatalf("Expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != genai.RoleUser {
		t.Errorf("Expected user role, got %s", contents[0].Role)
	}
	if contents[1].Role != genai.RoleModel {
		t.Errorf("Expected model role, got %s", contents[1].Role)
	}
}

func TestGemini_Complete(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"bonjour"}]}}]}`)
	}))
	defer server.Close()

	gemini, err := NewGemini(context.Background(), &Config{APIKey: "test-key", URL: server.URL})
	if err != nil {
		t.Fatalf("NewGemini() error: %v", err)
	}

	got, err := gemini.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You are a helpful assistant."},
		{Role: RoleUser, Content: "Translate the word \"hello\" to French."},
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got != "bonjour" {
		t.Errorf("Complete() = %q, want bonjour", got)
	}
	if !strings.Contains(gotPath, DefaultGeminiModel) {
		t.Errorf("Expected default Gemini model in path, got %s", gotPath)
	}
}

func TestStatusError(t *testing.T) {
	if got := (&StatusError{Code: 500}).Error(); got != "unexpected status 500" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&StatusError{Code: 404, Body: "not found"}).Error(); got != "unexpected status 404: not found" {
		t.Errorf("Error() = %q", got)
	}
}
