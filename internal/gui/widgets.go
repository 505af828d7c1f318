package gui

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/polyglot/internal/photo"
)

// PhotoDisplay shows the picked photo with its name
type PhotoDisplay struct {
	widget.BaseWidget

	container   *fyne.Container
	imageCanvas *canvas.Image
	imageLabel  *widget.Label

	current photo.Ref
}

// NewPhotoDisplay creates a new photo display widget
func NewPhotoDisplay() *PhotoDisplay {
	d := &PhotoDisplay{}

	d.imageCanvas = canvas.NewImageFromResource(nil)
	d.imageCanvas.FillMode = canvas.ImageFillContain
	d.imageCanvas.SetMinSize(fyne.NewSize(200, 150))

	d.imageLabel = widget.NewLabel("No photo")
	d.imageLabel.Alignment = fyne.TextAlignCenter

	d.container = container.NewBorder(
		nil,
		d.imageLabel,
		nil, nil,
		d.imageCanvas,
	)

	d.ExtendBaseWidget(d)
	return d
}

// CreateRenderer implements fyne.Widget
func (d *PhotoDisplay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(d.container)
}

// SetPhoto loads and shows ref; unchanged refs are not reloaded
func (d *PhotoDisplay) SetPhoto(ref photo.Ref) {
	if ref == d.current {
		return
	}
	if ref.IsZero() {
		d.Clear()
		return
	}
	d.current = ref

	file, err := os.Open(ref.Path())
	if err != nil {
		d.imageLabel.SetText(fmt.Sprintf("Error loading photo: %v", err))
		return
	}
	defer file.Close()

	// webp and bmp pass validation but have no decoder here
	img, _, err := image.Decode(file)
	if err != nil {
		d.imageCanvas.Image = nil
		d.imageCanvas.Refresh()
		d.imageLabel.SetText(ref.Name())
		return
	}

	d.imageCanvas.Image = img
	d.imageCanvas.Refresh()
	d.imageLabel.SetText(ref.Name())
}

// Clear clears the display
func (d *PhotoDisplay) Clear() {
	d.current = photo.Ref{}
	d.imageCanvas.Image = nil
	d.imageCanvas.Refresh()
	d.imageLabel.SetText("No photo")
}
