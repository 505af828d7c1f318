// Package chat sends two-message prompts to a remote chat-completion backend
// and returns the assistant's raw text. Supported backends are the fixed
// JSON hub endpoint, the OpenAI API and the Gemini API; any of them can be
// wrapped in a circuit breaker that fails fast while the backend is down.
package chat
