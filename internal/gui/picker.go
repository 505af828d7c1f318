package gui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"codeberg.org/snonux/polyglot/internal/photo"
)

var photoExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

type pickResult struct {
	ref photo.Ref
	err error
}

// dialogPicker asks for a photo with a file dialog. Pick blocks until the
// dialog closes and must not run on the UI goroutine.
func (a *Application) dialogPicker() photo.Picker {
	return photo.FuncPicker(func(ctx context.Context) (photo.Ref, error) {
		done := make(chan pickResult, 1)

		fyne.Do(func() {
			d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
				done <- pickedFile(reader, err)
			}, a.window)
			d.SetFilter(storage.NewExtensionFileFilter(photoExtensions))
			d.Show()
		})

		select {
		case res := <-done:
			return res.ref, res.err
		case <-ctx.Done():
			return photo.Ref{}, ctx.Err()
		}
	})
}

// pickedFile turns a file dialog result into a photo reference
func pickedFile(reader fyne.URIReadCloser, err error) pickResult {
	if err != nil {
		return pickResult{err: err}
	}
	if reader == nil {
		return pickResult{err: photo.ErrCanceled}
	}
	path := reader.URI().Path()
	reader.Close()

	ref, err := photo.Validate(path)
	return pickResult{ref: ref, err: err}
}
