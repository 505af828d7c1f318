package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody limits how much of a failed response is kept for the error
const maxErrorBody = 512

// hubRequest is the body POSTed to the hub endpoint
type hubRequest struct {
	Messages []Message `json:"messages"`
	Model    string    `json:"model"`
}

// hubResponse is the success body of the hub endpoint
type hubResponse struct {
	Response *string `json:"response"`
}

// Hub talks to the hosted JSON chat endpoint
type Hub struct {
	url     string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewHub creates a client for the hub endpoint
func NewHub(config *Config) *Hub {
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Hub{
		url:     firstNonEmpty(config.URL, DefaultHubURL),
		model:   firstNonEmpty(config.Model, DefaultModel),
		timeout: config.Timeout,
		client:  client,
	}
}

// Complete POSTs the messages and returns the response field
func (h *Hub) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := withTimeout(ctx, h.timeout)
	defer cancel()

	body, err := json.Marshal(hubRequest{Messages: messages, Model: h.model})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var decoded hubResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if decoded.Response == nil {
		return "", fmt.Errorf("%w: missing response field", ErrMalformedResponse)
	}

	return *decoded.Response, nil
}

// Name returns the backend name
func (h *Hub) Name() string {
	return "hub"
}
