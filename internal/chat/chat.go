package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message roles understood by every backend
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultHubURL is the hosted chat endpoint the mobile screens talked to
const DefaultHubURL = "http://apihub.p.appply.xyz:3300/chatgpt"

// DefaultModel is the model name sent with every hub and OpenAI request
const DefaultModel = "gpt-4o"

// DefaultGeminiModel is used when the Gemini backend is selected without a model
const DefaultGeminiModel = "gemini-2.0-flash"

// Message is a single prompt message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer sends a prompt to a chat backend and returns the raw reply text
type Completer interface {
	// Complete sends the messages and returns the assistant's text
	Complete(ctx context.Context, messages []Message) (string, error)

	// Name returns the backend name
	Name() string
}

var (
	// ErrMalformedResponse is returned when the backend answered 2xx with a body
	// that does not carry the assistant text
	ErrMalformedResponse = errors.New("malformed chat response")

	// ErrUnavailable is returned by the circuit breaker while it is open
	ErrUnavailable = errors.New("chat backend unavailable")
)

// StatusError is returned when the backend answered with a non-2xx status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Config holds configuration for chat backends
type Config struct {
	Backend string        // "hub", "openai" or "gemini"
	URL     string        // Hub endpoint, or base URL override for openai/gemini
	Model   string        // Model name; backend default when empty
	APIKey  string        // Required for openai and gemini
	Timeout time.Duration // Per-request timeout, 0 leaves it to the transport

	// Circuit breaker settings
	Breaker         bool
	BreakerFailures uint32        // Consecutive failures before the breaker opens
	BreakerCooldown time.Duration // Time the breaker stays open

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// DefaultConfig returns the configuration that matches the hosted hub endpoint
func DefaultConfig() *Config {
	return &Config{
		Backend:         "hub",
		URL:             DefaultHubURL,
		Model:           DefaultModel,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// NewCompleter creates the backend named in config, wrapped in a circuit
// breaker when config.Breaker is set
func NewCompleter(ctx context.Context, config *Config) (Completer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	var (
		completer Completer
		err       error
	)

	switch strings.ToLower(config.Backend) {
	case "", "hub":
		completer = NewHub(config)
	case "openai":
		completer, err = NewOpenAI(config)
	case "gemini":
		completer, err = NewGemini(ctx, config)
	default:
		return nil, fmt.Errorf("unknown chat backend: %s", config.Backend)
	}
	if err != nil {
		return nil, err
	}

	if config.Breaker {
		completer = NewBreaker(completer, config.BreakerFailures, config.BreakerCooldown, config.Logger)
	}

	config.Logger.Debug("Chat backend ready", zap.String("backend", completer.Name()))
	return completer, nil
}

// withTimeout applies the per-request timeout when one is configured
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// firstNonEmpty returns the first non-empty string
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
