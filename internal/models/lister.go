package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when no OpenAI key is configured
var ErrNoAPIKey = errors.New("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure chat.openai_key in .polyglot.yaml")

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
	out    io.Writer
}

// NewLister creates a new model lister printing to stdout
func NewLister(apiKey string) *Lister {
	return NewListerWithConfig(apiKey, "", os.Stdout)
}

// NewListerWithConfig creates a lister against baseURL (the OpenAI API
// when empty) printing to out
func NewListerWithConfig(apiKey, baseURL string, out io.Writer) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
		out:    out,
	}
}

// Catalog is the categorized model list
type Catalog struct {
	Chat   []string // Usable as chat.model for the openai backend
	Speech []string // Usable as the speech model
	Other  []string
}

// Fetch retrieves and categorizes the models available to the key
func (l *Lister) Fetch(ctx context.Context) (*Catalog, error) {
	if l.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	catalog := &Catalog{}
	for _, model := range models.Models {
		id := model.ID
		switch {
		case strings.Contains(id, "tts"):
			catalog.Speech = append(catalog.Speech, id)
		case strings.HasPrefix(id, "gpt") || strings.HasPrefix(id, "chatgpt") || strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "o3") || strings.HasPrefix(id, "o4"):
			if strings.Contains(id, "audio") || strings.Contains(id, "realtime") || strings.Contains(id, "transcribe") {
				catalog.Other = append(catalog.Other, id)
			} else {
				catalog.Chat = append(catalog.Chat, id)
			}
		default:
			catalog.Other = append(catalog.Other, id)
		}
	}

	sort.Strings(catalog.Chat)
	sort.Strings(catalog.Speech)
	sort.Strings(catalog.Other)
	return catalog, nil
}

// ListAvailableModels prints the models available to the key, categorized by use
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	catalog, err := l.Fetch(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(l.out, "Available OpenAI Models:")
	printSection(l.out, "Chat Models (for --chat-backend openai --chat-model):", catalog.Chat, "No chat models found")
	printSection(l.out, "Text-to-Speech (TTS) Models:", catalog.Speech, "No TTS models found")
	if n := len(catalog.Other); n > 0 {
		fmt.Fprintf(l.out, "\n... and %d other models\n", n)
	}
	return nil
}

func printSection(w io.Writer, title string, models []string, empty string) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(models) == 0 {
		fmt.Fprintf(w, "  %s\n", empty)
		return
	}
	for _, model := range models {
		fmt.Fprintf(w, "  %s\n", model)
	}
}
