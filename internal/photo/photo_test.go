package photo_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/polyglot/internal/photo"
	"codeberg.org/snonux/polyglot/internal/testutil"
)

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	pngPath := testutil.CreateTestImage(t, dir, "menu.png")
	jpegPath := filepath.Join(dir, "sign.jpg")
	testutil.CreateTestFile(t, jpegPath, testutil.JPEGHeader)
	textPath := filepath.Join(dir, "notes.txt")
	testutil.CreateTestFile(t, textPath, []byte("just some text"))

	tests := []struct {
		name    string
		path    string
		wantErr bool
		notImg  bool
	}{
		{name: "png", path: pngPath},
		{name: "jpeg", path: jpegPath},
		{name: "text file", path: textPath, wantErr: true, notImg: true},
		{name: "missing", path: filepath.Join(dir, "nope.png"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := photo.Validate(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if tt.notImg && !errors.Is(err, photo.ErrNotImage) {
					t.Errorf("Expected ErrNotImage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if ref.Name() != filepath.Base(tt.path) {
				t.Errorf("Name() = %s, want %s", ref.Name(), filepath.Base(tt.path))
			}
			if !strings.HasPrefix(ref.URI, "file://") {
				t.Errorf("Expected file URI, got %s", ref.URI)
			}
		})
	}
}

func TestRef(t *testing.T) {
	var zero photo.Ref
	if !zero.IsZero() || zero.Name() != "" {
		t.Errorf("Zero ref should be empty, got %+v", zero)
	}

	ref := photo.NewRef("/tmp/menu.png")
	if ref.Path() != "/tmp/menu.png" {
		t.Errorf("Path() = %s", ref.Path())
	}
	if ref.Name() != "menu.png" {
		t.Errorf("Name() = %s", ref.Name())
	}

	plain := photo.Ref{URI: "photos/board.jpg"}
	if plain.Path() != "photos/board.jpg" || plain.Name() != "board.jpg" {
		t.Errorf("Plain path ref: Path()=%s Name()=%s", plain.Path(), plain.Name())
	}
}

func TestFilePicker(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateTestImage(t, dir, "street.png")

	picker := &photo.FilePicker{Path: path}
	ref, err := picker.Pick(context.Background())
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if ref.Name() != "street.png" {
		t.Errorf("Pick() name = %s", ref.Name())
	}

	_, err = (&photo.FilePicker{Path: "  "}).Pick(context.Background())
	if !errors.Is(err, photo.ErrCanceled) {
		t.Errorf("Empty path should cancel, got %v", err)
	}
}

func TestFuncPicker(t *testing.T) {
	want := photo.Ref{URI: "file:///tmp/x.png"}
	var picker photo.Picker = photo.FuncPicker(func(ctx context.Context) (photo.Ref, error) {
		return want, nil
	})
	got, err := picker.Pick(context.Background())
	if err != nil || got != want {
		t.Errorf("Pick() = %v, %v", got, err)
	}
}

func TestStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := photo.NewStore(&photo.StoreOptions{Dir: dir, MaxSizeBytes: 1024})

	ref, err := store.Save(bytes.NewReader(testutil.PNGHeader), "my menu.PNG")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	testutil.AssertFileExists(t, ref.Path())
	if filepath.Dir(ref.Path()) != dir {
		t.Errorf("Expected photo in %s, got %s", dir, ref.Path())
	}
	if !strings.HasPrefix(ref.Name(), "my_menu_") || !strings.HasSuffix(ref.Name(), ".png") {
		t.Errorf("Unexpected file name %s", ref.Name())
	}
}

func TestStore_SaveRejects(t *testing.T) {
	dir := t.TempDir()
	store := photo.NewStore(&photo.StoreOptions{Dir: dir, MaxSizeBytes: 16})

	big := append(append([]byte{}, testutil.PNGHeader...), make([]byte, 64)...)
	if _, err := store.Save(bytes.NewReader(big), "big.png"); !errors.Is(err, photo.ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}

	if _, err := store.Save(strings.NewReader("not an image at all"), "fake.png"); !errors.Is(err, photo.ErrNotImage) {
		t.Errorf("Expected ErrNotImage, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Rejected uploads must be removed, found %d files", len(entries))
	}
}

func TestStore_Remove(t *testing.T) {
	dir := t.TempDir()
	store := photo.NewStore(&photo.StoreOptions{Dir: dir})

	ref, err := store.Save(bytes.NewReader(testutil.PNGHeader), "menu.png")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := store.Remove(ref); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Stat(ref.Path()); !os.IsNotExist(err) {
		t.Errorf("Expected %s to be removed", ref.Path())
	}

	// Removing twice, or nothing, is fine
	if err := store.Remove(ref); err != nil {
		t.Errorf("Remove() of a removed photo: %v", err)
	}
	if err := store.Remove(photo.Ref{}); err != nil {
		t.Errorf("Remove() of a zero ref: %v", err)
	}

	// Files outside the store stay
	own := testutil.CreateTestImage(t, t.TempDir(), "holiday.png")
	if err := store.Remove(photo.NewRef(own)); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	testutil.AssertFileExists(t, own)
}
