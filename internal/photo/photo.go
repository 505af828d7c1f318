package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrCanceled is returned by a Picker when the user backed out of the selection
var ErrCanceled = errors.New("photo selection canceled")

// ErrNotImage is returned when a file does not look like a supported image
var ErrNotImage = errors.New("not a supported image")

// ErrTooLarge is returned by Store.Save when an upload exceeds the limit
var ErrTooLarge = errors.New("photo too large")

// Ref identifies a picked photo
type Ref struct {
	URI string // file:// URI or plain path
}

// Picker lets the user choose a photo
type Picker interface {
	Pick(ctx context.Context) (Ref, error)
}

// NewRef creates a reference for a local file
func NewRef(path string) Ref {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Ref{URI: (&url.URL{Scheme: "file", Path: abs}).String()}
}

// IsZero reports whether no photo is referenced
func (r Ref) IsZero() bool {
	return r.URI == ""
}

// Path returns the local file path of the reference
func (r Ref) Path() string {
	if strings.HasPrefix(r.URI, "file://") {
		if u, err := url.Parse(r.URI); err == nil {
			return u.Path
		}
	}
	return r.URI
}

// Name returns the file name of the reference
func (r Ref) Name() string {
	if r.IsZero() {
		return ""
	}
	return filepath.Base(r.Path())
}

func (r Ref) String() string {
	return r.URI
}

// supportedTypes are the content types accepted as photos
var supportedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// Validate checks that path exists and holds a supported image, and returns
// a reference to it
func Validate(path string) (Ref, error) {
	file, err := os.Open(path)
	if err != nil {
		return Ref{}, fmt.Errorf("failed to open photo: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Ref{}, fmt.Errorf("failed to stat photo: %w", err)
	}
	if info.IsDir() {
		return Ref{}, fmt.Errorf("%s is a directory", path)
	}

	contentType, err := sniff(file)
	if err != nil {
		return Ref{}, err
	}
	if !supportedTypes[contentType] {
		return Ref{}, fmt.Errorf("%w: %s (%s)", ErrNotImage, filepath.Base(path), contentType)
	}

	return NewRef(path), nil
}

// sniff detects the content type from the first 512 bytes
func sniff(r io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}
