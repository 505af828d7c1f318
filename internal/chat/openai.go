package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAI sends prompts through the OpenAI chat completions API
type OpenAI struct {
	apiKey  string
	model   string
	timeout time.Duration
	client  *openai.Client
}

// NewOpenAI creates an OpenAI chat backend
func NewOpenAI(config *Config) (*OpenAI, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	// The hub URL is meaningless for OpenAI, only honour explicit overrides
	if config.URL != "" && config.URL != DefaultHubURL {
		clientConfig.BaseURL = config.URL
	}
	if config.HTTPClient != nil {
		clientConfig.HTTPClient = config.HTTPClient
	}

	return &OpenAI{
		apiKey:  config.APIKey,
		model:   firstNonEmpty(config.Model, openai.GPT4o),
		timeout: config.Timeout,
		client:  openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Complete sends the messages as a chat completion request
func (o *OpenAI) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
			return "", &StatusError{Code: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
			return "", &StatusError{Code: reqErr.HTTPStatusCode, Body: string(reqErr.Body)}
		}
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

// Name returns the backend name
func (o *OpenAI) Name() string {
	return "openai"
}
