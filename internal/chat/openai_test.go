package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"codeberg.org/snonux/polyglot/internal/chat"
)

func TestNewOpenAI_NoAPIKey(t *testing.T) {
	_, err := chat.NewOpenAI(&chat.Config{})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if err.Error() != "OpenAI API key is required" {
		t.Errorf("Expected 'OpenAI API key is required' error, got: %v", err)
	}
}

func TestOpenAI_Complete(t *testing.T) {
	var gotModel string
	var gotRoles []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = req.Model
		for _, m := range req.Messages {
			gotRoles = append(gotRoles, m.Role)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4o","choices":[{"index":0,"message":{"role":"assistant","content":"hola\nadiós"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client, err := chat.NewOpenAI(&chat.Config{APIKey: "test-key", URL: server.URL})
	if err != nil {
		t.Fatalf("chat.NewOpenAI() error: %v", err)
	}

	got, err := client.Complete(context.Background(), testMessages())
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got != "hola\nadiós" {
		t.Errorf("Complete() = %q", got)
	}
	if gotModel != "gpt-4o" {
		t.Errorf("Expected model gpt-4o, got %s", gotModel)
	}
	if len(gotRoles) != 2 || gotRoles[0] != "system" || gotRoles[1] != "user" {
		t.Errorf("Unexpected roles: %v", gotRoles)
	}
}

func TestOpenAI_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "api error status",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"slow down","type":"rate_limit"}}`,
			check: func(t *testing.T, err error) {
				var statusErr *chat.StatusError
				if !errors.As(err, &statusErr) || statusErr.Code != http.StatusTooManyRequests {
					t.Errorf("Expected 429 chat.StatusError, got %v", err)
				}
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"id":"chatcmpl-1","object":"chat.completion","choices":[]}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, chat.ErrMalformedResponse) {
					t.Errorf("Expected chat.ErrMalformedResponse, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client, err := chat.NewOpenAI(&chat.Config{APIKey: "test-key", URL: server.URL})
			if err != nil {
				t.Fatalf("chat.NewOpenAI() error: %v", err)
			}

			_, err = client.Complete(context.Background(), testMessages())
			if err == nil {
				t.Fatal("Expected error")
			}
			tt.check(t, err)
		})
	}
}

func TestOpenAI_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	client, err := chat.NewOpenAI(&chat.Config{APIKey: apiKey})
	if err != nil {
		t.Fatalf("chat.NewOpenAI() error: %v", err)
	}

	got, err := client.Complete(context.Background(), testMessages())
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if got == "" {
		t.Error("Got empty reply")
	}
	t.Logf("Reply:\n%s", got)
}
