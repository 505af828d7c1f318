package photo

import (
	"context"
	"strings"
)

// FilePicker picks a fixed path, as given on the command line
type FilePicker struct {
	Path string
}

// Pick validates the configured path. An empty path counts as a cancel.
func (p *FilePicker) Pick(ctx context.Context) (Ref, error) {
	if err := ctx.Err(); err != nil {
		return Ref{}, err
	}
	if strings.TrimSpace(p.Path) == "" {
		return Ref{}, ErrCanceled
	}
	return Validate(p.Path)
}

// FuncPicker adapts a function, such as a dialog callback, to a Picker
type FuncPicker func(ctx context.Context) (Ref, error)

// Pick calls f
func (f FuncPicker) Pick(ctx context.Context) (Ref, error) {
	return f(ctx)
}
