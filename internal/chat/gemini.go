package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Gemini sends prompts through the Gemini API
type Gemini struct {
	model   string
	timeout time.Duration
	client  *genai.Client
}

// NewGemini creates a Gemini chat backend
func NewGemini(ctx context.Context, config *Config) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
	}
	if config.URL != "" && config.URL != DefaultHubURL {
		clientConfig.HTTPOptions.BaseURL = config.URL
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" || model == DefaultModel {
		model = DefaultGeminiModel
	}

	return &Gemini{
		model:   model,
		timeout: config.Timeout,
		client:  client,
	}, nil
}

// Complete sends system messages as the system instruction and the rest as contents
func (g *Gemini) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	genConfig, contents := geminiPrompt(messages)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genConfig)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code != 0 {
			return "", &StatusError{Code: apiErr.Code, Body: apiErr.Message}
		}
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", ErrMalformedResponse)
	}

	return resp.Text(), nil
}

// Name returns the backend name
func (g *Gemini) Name() string {
	return "gemini"
}

// geminiPrompt maps chat messages onto Gemini's system instruction and contents
func geminiPrompt(messages []Message) (*genai.GenerateContentConfig, []*genai.Content) {
	genConfig := &genai.GenerateContentConfig{}
	var contents []*genai.Content

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			if genConfig.SystemInstruction == nil {
				genConfig.SystemInstruction = &genai.Content{}
			}
			genConfig.SystemInstruction.Parts = append(genConfig.SystemInstruction.Parts, genai.NewPartFromText(m.Content))
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	return genConfig, contents
}
