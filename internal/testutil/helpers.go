package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// HubMessage mirrors one prompt message on the wire
type HubMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HubRequest mirrors the body the hub endpoint receives
type HubRequest struct {
	Messages []HubMessage `json:"messages"`
	Model    string       `json:"model"`
}

// HubServer is a fake hub endpoint that records requests
type HubServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []HubRequest
}

// NewHubServer starts a fake hub endpoint. reply returns the status code and
// the raw body for each decoded request.
func NewHubServer(t *testing.T, reply func(req HubRequest) (int, string)) *HubServer {
	t.Helper()

	hs := &HubServer{}
	hs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req HubRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		hs.mu.Lock()
		hs.requests = append(hs.requests, req)
		hs.mu.Unlock()

		status, body := reply(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(hs.Close)

	return hs
}

// Requests returns the requests received so far
func (hs *HubServer) Requests() []HubRequest {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	result := make([]HubRequest, len(hs.requests))
	copy(result, hs.requests)
	return result
}

// HubReply encodes text as a successful hub response body
func HubReply(text string) string {
	body, _ := json.Marshal(map[string]string{"response": text})
	return string(body)
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// PNGHeader is enough of a PNG file for content sniffing
var PNGHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

// JPEGHeader is enough of a JPEG file for content sniffing
var JPEGHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}

// CreateTestImage writes a minimal PNG to dir and returns its path
func CreateTestImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	CreateTestFile(t, path, PNGHeader)
	return path
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}
