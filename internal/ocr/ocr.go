package ocr

import (
	"context"
	"fmt"

	"codeberg.org/snonux/polyglot/internal/photo"
)

// PlaceholderText is what Placeholder reports for every photo
const PlaceholderText = "Example text from OCR"

// TextExtractor reads the text shown in a photo
type TextExtractor interface {
	Extract(ctx context.Context, ref photo.Ref) (string, error)
}

// Placeholder returns fixed text for any photo
type Placeholder struct{}

// Extract returns PlaceholderText
func (Placeholder) Extract(ctx context.Context, ref photo.Ref) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if ref.IsZero() {
		return "", fmt.Errorf("no photo selected")
	}
	return PlaceholderText, nil
}
