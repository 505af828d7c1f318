package models

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
)

func newTestLister(t *testing.T, body string) (*Lister, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	return NewListerWithConfig("test-api-key", srv.URL+"/v1", &out), &out
}

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}
	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
	if lister.out != os.Stdout {
		t.Error("Expected output to default to stdout")
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewLister("")

	err := lister.ListAvailableModels(context.Background())
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got: %v", err)
	}
}

func TestFetch(t *testing.T) {
	lister, _ := newTestLister(t, `{"object":"list","data":[
		{"id":"gpt-4o","object":"model"},
		{"id":"tts-1","object":"model"},
		{"id":"gpt-4o-mini-tts","object":"model"},
		{"id":"whisper-1","object":"model"},
		{"id":"gpt-4o-realtime-preview","object":"model"},
		{"id":"gpt-3.5-turbo","object":"model"}
	]}`)

	catalog, err := lister.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if want := []string{"gpt-3.5-turbo", "gpt-4o"}; !reflect.DeepEqual(catalog.Chat, want) {
		t.Errorf("Chat = %v, want %v", catalog.Chat, want)
	}
	if want := []string{"gpt-4o-mini-tts", "tts-1"}; !reflect.DeepEqual(catalog.Speech, want) {
		t.Errorf("Speech = %v, want %v", catalog.Speech, want)
	}
	if want := []string{"gpt-4o-realtime-preview", "whisper-1"}; !reflect.DeepEqual(catalog.Other, want) {
		t.Errorf("Other = %v, want %v", catalog.Other, want)
	}
}

func TestListAvailableModels_Output(t *testing.T) {
	lister, out := newTestLister(t, `{"object":"list","data":[{"id":"gpt-4o"},{"id":"dall-e-3"}]}`)

	if err := lister.ListAvailableModels(context.Background()); err != nil {
		t.Fatalf("ListAvailableModels failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Available OpenAI Models:", "  gpt-4o\n", "No TTS models found", "... and 1 other models"} {
		if !strings.Contains(got, want) {
			t.Errorf("output misses %q:\n%s", want, got)
		}
	}
}

func TestListAvailableModels_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	lister := NewListerWithConfig("test-api-key", srv.URL, &bytes.Buffer{})

	if err := lister.ListAvailableModels(context.Background()); err == nil {
		t.Error("Expected error from failing server")
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	lister := NewListerWithConfig(apiKey, "", &bytes.Buffer{})
	if err := lister.ListAvailableModels(context.Background()); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}
