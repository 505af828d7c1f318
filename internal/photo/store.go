package photo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/polyglot/internal"
)

// StoreOptions configures where uploaded photos are kept
type StoreOptions struct {
	Dir          string // Directory to save photos
	MaxSizeBytes int64  // Maximum upload size (0 = no limit)
}

// DefaultStoreOptions keeps uploads in the system temp dir, up to 10MB
func DefaultStoreOptions() *StoreOptions {
	return &StoreOptions{
		Dir:          filepath.Join(os.TempDir(), "polyglot-photos"),
		MaxSizeBytes: 10 * 1024 * 1024, // 10MB
	}
}

// Store saves uploaded photos (HTTP API, Telegram) to disk
type Store struct {
	options *StoreOptions
}

// NewStore creates a photo store
func NewStore(options *StoreOptions) *Store {
	if options == nil {
		options = DefaultStoreOptions()
	}
	return &Store{options: options}
}

// Save copies r into the store and returns a validated reference. name is
// only used to derive a readable file name.
func (s *Store) Save(r io.Reader, name string) (Ref, error) {
	if err := os.MkdirAll(s.options.Dir, 0755); err != nil {
		return Ref{}, fmt.Errorf("failed to create photo directory: %w", err)
	}

	outputPath := filepath.Join(s.options.Dir, s.fileName(name))
	file, err := os.Create(outputPath)
	if err != nil {
		return Ref{}, fmt.Errorf("failed to create file: %w", err)
	}

	if err := s.copy(file, r); err != nil {
		file.Close()
		os.Remove(outputPath) // Clean up on error
		return Ref{}, err
	}
	if err := file.Close(); err != nil {
		os.Remove(outputPath)
		return Ref{}, fmt.Errorf("failed to write file: %w", err)
	}

	ref, err := Validate(outputPath)
	if err != nil {
		os.Remove(outputPath)
		return Ref{}, err
	}
	return ref, nil
}

// Remove deletes a photo saved by this store. References outside the store
// directory are ignored, so a learner's own files are never touched.
func (s *Store) Remove(ref Ref) error {
	if ref.IsZero() {
		return nil
	}
	dir, err := filepath.Abs(s.options.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve photo directory: %w", err)
	}
	path, err := filepath.Abs(ref.Path())
	if err != nil {
		return fmt.Errorf("failed to resolve photo path: %w", err)
	}
	if filepath.Dir(path) != dir {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}

// Dir returns the directory uploads are saved in
func (s *Store) Dir() string {
	return s.options.Dir
}

// MaxBytes returns the upload size limit, 0 for none
func (s *Store) MaxBytes() int64 {
	return s.options.MaxSizeBytes
}

// copy writes r to w honouring the size limit
func (s *Store) copy(w io.Writer, r io.Reader) error {
	if s.options.MaxSizeBytes <= 0 {
		if _, err := io.Copy(w, r); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	}

	written, err := io.CopyN(w, r, s.options.MaxSizeBytes)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to write file: %w", err)
	}

	// Check if we hit the size limit
	if written == s.options.MaxSizeBytes {
		if n, _ := r.Read(make([]byte, 1)); n > 0 {
			return fmt.Errorf("%w: exceeds maximum size of %d bytes", ErrTooLarge, s.options.MaxSizeBytes)
		}
	}
	return nil
}

// fileName builds a unique, filesystem safe name for an upload
func (s *Store) fileName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || len(ext) > 5 { // Probably not a real extension
		ext = ".jpg"
	}

	base := internal.SanitizeFilename(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	if base == "" {
		base = "photo"
	}
	if len(base) > 50 {
		base = base[:50]
	}

	stamp := internal.ShortHash(fmt.Sprintf("%s-%d", name, time.Now().UnixNano()))
	return fmt.Sprintf("%s_%s%s", base, stamp, ext)
}
